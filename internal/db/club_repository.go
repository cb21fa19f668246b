package db

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"clubhub-backend-go/internal/models"
)

const (
	// maxSlugAttempts bounds the numeric suffixes tried for a taken slug.
	maxSlugAttempts = 50
	// deleteChunkSize keeps each cascade transaction well under Firestore's
	// 500-write limit.
	deleteChunkSize = 400
	// clubFetchConcurrency bounds parallel point reads of clubs.
	clubFetchConcurrency = 8
	listIDsPageSize      = 200
)

// clubRepository implements ClubRepository on a Store.
type clubRepository struct {
	store Store
	index UserClubIndex
}

// NewClubRepository creates a ClubRepository. Membership resolution goes
// through index.
func NewClubRepository(store Store, index UserClubIndex) ClubRepository {
	return &clubRepository{store: store, index: index}
}

// Create validates the club, assigns a new ID and a free slug, and writes the
// club together with its slug claim in one transaction. memberCount starts at
// zero; createdAt/updatedAt are stamped by the store.
func (r *clubRepository) Create(ctx context.Context, club *models.Club) (string, error) {
	if club == nil {
		return "", models.NewValidationError("club", "is required")
	}
	base := club.Slug
	if base == "" {
		base = models.Slugify(club.Name)
	}
	if base == "" {
		return "", models.NewValidationError("name", "must contain at least one letter or digit")
	}

	club.ID = r.store.NewID()
	club.MemberCount = 0
	club.CreatedAt, club.UpdatedAt = time.Time{}, time.Time{}
	club.Slug, club.Settings.PortalSlug = base, base
	if err := models.Validate(club); err != nil {
		return "", err
	}

	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		slug, err := freeSlug(tx, base)
		if err != nil {
			return err
		}
		club.Slug, club.Settings.PortalSlug = slug, slug
		if err := tx.Create(slugPath(slug), &models.ClubSlugClaim{Slug: slug, ClubID: club.ID}); err != nil {
			return err
		}
		return tx.Create(clubPath(club.ID), club)
	})
	if err != nil {
		return "", fmt.Errorf("failed to create club: %w", err)
	}
	return club.ID, nil
}

// freeSlug returns base, or base-2, base-3, ... whichever is unclaimed first.
func freeSlug(tx Tx, base string) (string, error) {
	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		var claim models.ClubSlugClaim
		taken, err := tx.Get(slugPath(candidate), &claim)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSlugTaken, base)
}

// GetByID returns the club, or nil if it does not exist.
func (r *clubRepository) GetByID(ctx context.Context, clubID string) (*models.Club, error) {
	if err := checkID("clubId", clubID); err != nil {
		return nil, err
	}
	var club models.Club
	found, err := r.store.Get(ctx, clubPath(clubID), &club)
	if err != nil {
		return nil, fmt.Errorf("failed to get club '%s': %w", clubID, err)
	}
	if !found {
		return nil, nil
	}
	return &club, nil
}

// GetBySlug resolves a portal slug through its claim. A dangling claim
// resolves to nil.
func (r *clubRepository) GetBySlug(ctx context.Context, slug string) (*models.Club, error) {
	if err := checkID("slug", slug); err != nil {
		return nil, err
	}
	var claim models.ClubSlugClaim
	found, err := r.store.Get(ctx, slugPath(slug), &claim)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slug '%s': %w", slug, err)
	}
	if !found {
		return nil, nil
	}
	return r.GetByID(ctx, claim.ClubID)
}

// ListByOwner returns the clubs owned directly by ownerID, newest first.
func (r *clubRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Club, error) {
	if err := checkID("ownerId", ownerID); err != nil {
		return nil, err
	}
	snaps, err := r.store.Query(ctx, Query{
		Collection: clubsCollection,
		Filters:    []Filter{{Field: "ownerId", Op: "==", Value: ownerID}},
		Orders:     []Order{{Field: "createdAt", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs of owner '%s': %w", ownerID, err)
	}
	return decodeAll[models.Club](snaps, "club")
}

// ListForUser resolves the user's memberships through the index and fetches
// each club concurrently. Clubs that no longer exist are skipped.
func (r *clubRepository) ListForUser(ctx context.Context, userID string) ([]*models.Club, error) {
	clubIDs, err := r.index.ClubIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := make([]*models.Club, len(clubIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clubFetchConcurrency)
	for i, id := range clubIDs {
		i, id := i, id
		g.Go(func() error {
			club, err := r.GetByID(gctx, id)
			if err != nil {
				return err
			}
			found[i] = club
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve clubs of user '%s': %w", userID, err)
	}

	clubs := make([]*models.Club, 0, len(found))
	for _, club := range found {
		if club != nil {
			clubs = append(clubs, club)
		}
	}
	return clubs, nil
}

// ListIDs pages through every club and returns their IDs.
func (r *clubRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	q := Query{Collection: clubsCollection, Limit: listIDsPageSize}
	for {
		snaps, err := r.store.Query(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to list club IDs: %w", err)
		}
		for _, snap := range snaps {
			ids = append(ids, snap.ID)
		}
		if len(snaps) < listIDsPageSize {
			return ids, nil
		}
		q.StartAfter = snaps[len(snaps)-1].Path
	}
}

// Update merges the patch into the club and re-stamps updatedAt. The club
// must exist. Concurrent updates are last-write-wins per field.
func (r *clubRepository) Update(ctx context.Context, clubID string, patch models.ClubPatch) error {
	if err := checkID("clubId", clubID); err != nil {
		return err
	}
	if err := models.Validate(patch); err != nil {
		return err
	}
	updates := append(toUpdates(patch.Updates()), Update{Path: "updatedAt", Value: ServerTimestamp})
	if err := r.store.Update(ctx, clubPath(clubID), updates); err != nil {
		return fmt.Errorf("failed to update club '%s': %w", clubID, err)
	}
	return nil
}

// Delete cascades over every subcollection in bounded transactions, then
// removes the slug claim and the club itself. The club document goes last so
// an interrupted delete can simply be run again.
func (r *clubRepository) Delete(ctx context.Context, clubID string) error {
	club, err := r.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	if club == nil {
		return fmt.Errorf("club '%s': %w", clubID, ErrNotFound)
	}

	if err := r.deleteMembers(ctx, clubID); err != nil {
		return err
	}
	for _, name := range clubSubcollections {
		if name == membersCollection {
			continue
		}
		if err := r.deleteCollection(ctx, clubCollection(clubID, name)); err != nil {
			return err
		}
	}

	err = r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		var claim models.ClubSlugClaim
		found, err := tx.Get(slugPath(club.Slug), &claim)
		if err != nil {
			return err
		}
		if found && claim.ClubID == clubID {
			if err := tx.Delete(slugPath(club.Slug)); err != nil {
				return err
			}
		}
		return tx.Delete(clubPath(clubID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete club '%s': %w", clubID, err)
	}
	return nil
}

// deleteMembers removes members chunk by chunk, releasing their membership
// index references in the same transaction.
func (r *clubRepository) deleteMembers(ctx context.Context, clubID string) error {
	collection := clubCollection(clubID, membersCollection)
	for {
		done := false
		err := r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
			snaps, err := tx.Query(Query{Collection: collection, Limit: deleteChunkSize / 2})
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				done = true
				return nil
			}
			deltas := make(map[string]int64)
			for _, snap := range snaps {
				var m models.Member
				if err := snap.DataTo(&m); err != nil {
					return err
				}
				if uid := m.LinkedUserID(); uid != "" {
					deltas[uid]--
				}
			}
			if err := applyMembershipDeltas(tx, clubID, deltas); err != nil {
				return err
			}
			for _, snap := range snaps {
				if err := tx.Delete(snap.Path); err != nil {
					return err
				}
			}
			return tx.Update(clubPath(clubID), []Update{{Path: "memberCount", Value: Increment(-int64(len(snaps)))}})
		})
		if err != nil {
			return fmt.Errorf("failed to delete members of club '%s': %w", clubID, err)
		}
		if done {
			return nil
		}
	}
}

func (r *clubRepository) deleteCollection(ctx context.Context, collection string) error {
	for {
		snaps, err := r.store.Query(ctx, Query{Collection: collection, Limit: deleteChunkSize})
		if err != nil {
			return fmt.Errorf("failed to list %s for deletion: %w", collection, err)
		}
		if len(snaps) == 0 {
			return nil
		}
		err = r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
			for _, snap := range snaps {
				if err := tx.Delete(snap.Path); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", collection, err)
		}
	}
}

// RecountMembers recomputes memberCount from the live member documents in a
// single transaction and reports the stored and recomputed values.
func (r *clubRepository) RecountMembers(ctx context.Context, clubID string) (models.CountReconciliation, error) {
	result := models.CountReconciliation{ClubID: clubID}
	if err := checkID("clubId", clubID); err != nil {
		return result, err
	}
	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		var club models.Club
		found, err := tx.Get(clubPath(clubID), &club)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("club '%s': %w", clubID, ErrNotFound)
		}
		members, err := tx.Query(Query{Collection: clubCollection(clubID, membersCollection)})
		if err != nil {
			return err
		}
		result.Before, result.After = club.MemberCount, int64(len(members))
		if result.Before == result.After {
			return nil
		}
		return tx.Update(clubPath(clubID), []Update{{Path: "memberCount", Value: result.After}})
	})
	if err != nil {
		return result, fmt.Errorf("failed to recount members of club '%s': %w", clubID, err)
	}
	return result, nil
}
