package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"clubhub-backend-go/internal/models"
)

// membershipIndex implements UserClubIndex over
// userClubMemberships/{userId}/memberships/{clubId}.
type membershipIndex struct {
	store Store
}

// NewUserClubIndex creates a UserClubIndex.
func NewUserClubIndex(store Store) UserClubIndex {
	return &membershipIndex{store: store}
}

// ClubIDs returns the IDs of the clubs the user is linked to. Each club
// appears once however many member rows link the user to it.
func (x *membershipIndex) ClubIDs(ctx context.Context, userID string) ([]string, error) {
	if err := checkID("userId", userID); err != nil {
		return nil, err
	}
	snaps, err := x.store.Query(ctx, Query{Collection: membershipCollection(userID)})
	if err != nil {
		return nil, fmt.Errorf("failed to read memberships of user '%s': %w", userID, err)
	}
	ids := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		ids = append(ids, snap.ID)
	}
	return ids, nil
}

// IndexedUserIDs runs a collection-group scan over every user's index
// entries and returns the distinct user IDs, sorted.
func (x *membershipIndex) IndexedUserIDs(ctx context.Context) ([]string, error) {
	snaps, err := x.store.Query(ctx, Query{Collection: membershipEntries, Group: true})
	if err != nil {
		return nil, fmt.Errorf("failed to scan membership index: %w", err)
	}
	seen := make(map[string]bool)
	for _, snap := range snaps {
		// userClubMemberships/{uid}/memberships/{clubId}
		segs := strings.Split(snap.Path, "/")
		if len(segs) != 4 || segs[0] != membershipsCollection {
			continue
		}
		seen[segs[1]] = true
	}
	ids := make([]string, 0, len(seen))
	for uid := range seen {
		ids = append(ids, uid)
	}
	sort.Strings(ids)
	return ids, nil
}

// RebuildForUser recomputes the user's index entries from a collection-group
// scan of every club's members, replacing whatever the index held.
func (x *membershipIndex) RebuildForUser(ctx context.Context, userID string) error {
	if err := checkID("userId", userID); err != nil {
		return err
	}
	err := x.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		rows, err := tx.Query(Query{
			Collection: membersCollection,
			Group:      true,
			Filters:    []Filter{{Field: "userId", Op: "==", Value: userID}},
		})
		if err != nil {
			return err
		}
		existing, err := tx.Query(Query{Collection: membershipCollection(userID)})
		if err != nil {
			return err
		}

		counts := make(map[string]int64)
		for _, row := range rows {
			var m models.Member
			if err := row.DataTo(&m); err != nil {
				return err
			}
			counts[m.ClubID]++
		}
		for _, snap := range existing {
			if _, ok := counts[snap.ID]; !ok {
				if err := tx.Delete(snap.Path); err != nil {
					return err
				}
			}
		}
		clubIDs := make([]string, 0, len(counts))
		for id := range counts {
			clubIDs = append(clubIDs, id)
		}
		sort.Strings(clubIDs)
		for _, clubID := range clubIDs {
			entry := &models.UserClubMembership{UserID: userID, ClubID: clubID, Memberships: counts[clubID]}
			if err := tx.Set(membershipPath(userID, clubID), entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to rebuild membership index of user '%s': %w", userID, err)
	}
	return nil
}

// applyMembershipDeltas adjusts the reference counts of the user's index
// entries for one club inside tx, creating entries that become referenced and
// removing those that drop to zero. It reads before it writes, so callers
// must have finished their own reads.
func applyMembershipDeltas(tx Tx, clubID string, deltas map[string]int64) error {
	userIDs := make([]string, 0, len(deltas))
	for uid, d := range deltas {
		if d != 0 {
			userIDs = append(userIDs, uid)
		}
	}
	sort.Strings(userIDs)

	current := make(map[string]*models.UserClubMembership, len(userIDs))
	for _, uid := range userIDs {
		var entry models.UserClubMembership
		found, err := tx.Get(membershipPath(uid, clubID), &entry)
		if err != nil {
			return err
		}
		if found {
			current[uid] = &entry
		}
	}

	for _, uid := range userIDs {
		path := membershipPath(uid, clubID)
		entry := current[uid]
		refs := deltas[uid]
		if entry != nil {
			refs += entry.Memberships
		}
		var err error
		switch {
		case refs <= 0:
			if entry != nil {
				err = tx.Delete(path)
			}
		case entry == nil:
			err = tx.Create(path, &models.UserClubMembership{UserID: uid, ClubID: clubID, Memberships: refs})
		default:
			err = tx.Update(path, []Update{
				{Path: "memberships", Value: refs},
				{Path: "updatedAt", Value: ServerTimestamp},
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}
