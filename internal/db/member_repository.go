package db

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend-go/internal/models"
)

// memberRepository implements MemberRepository on a Store.
type memberRepository struct {
	store Store
}

// NewMemberRepository creates a MemberRepository.
func NewMemberRepository(store Store) MemberRepository {
	return &memberRepository{store: store}
}

func memberPath(clubID, memberID string) string {
	return clubDoc(clubID, membersCollection, memberID)
}

// Add creates the member and, in the same transaction, increments the club's
// memberCount and references the club in the linked user's index.
func (r *memberRepository) Add(ctx context.Context, clubID string, member *models.Member) (string, error) {
	if err := checkID("clubId", clubID); err != nil {
		return "", err
	}
	if member == nil {
		return "", models.NewValidationError("member", "is required")
	}
	member.ID = r.store.NewID()
	member.ClubID = clubID
	member.JoinedAt, member.UpdatedAt = time.Time{}, time.Time{}
	if err := models.Validate(member); err != nil {
		return "", err
	}
	if uid := member.LinkedUserID(); uid != "" {
		if err := checkID("userId", uid); err != nil {
			return "", err
		}
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
		if uid := member.LinkedUserID(); uid != "" {
			if err := applyMembershipDeltas(tx, clubID, map[string]int64{uid: 1}); err != nil {
				return err
			}
		}
		if err := tx.Create(memberPath(clubID, member.ID), member); err != nil {
			return err
		}
		return tx.Update(clubPath(clubID), []Update{{Path: "memberCount", Value: Increment(1)}})
	})
	if err != nil {
		return "", fmt.Errorf("failed to add member to club '%s': %w", clubID, err)
	}
	return member.ID, nil
}

// Get returns the member, or nil if it does not exist.
func (r *memberRepository) Get(ctx context.Context, clubID, memberID string) (*models.Member, error) {
	if err := checkID("clubId", clubID); err != nil {
		return nil, err
	}
	if err := checkID("memberId", memberID); err != nil {
		return nil, err
	}
	var member models.Member
	found, err := r.store.Get(ctx, memberPath(clubID, memberID), &member)
	if err != nil {
		return nil, fmt.Errorf("failed to get member '%s' of club '%s': %w", memberID, clubID, err)
	}
	if !found {
		return nil, nil
	}
	return &member, nil
}

func (r *memberRepository) List(ctx context.Context, clubID string, opts ListOptions) ([]*models.Member, error) {
	return listInto[models.Member](ctx, r.store, clubID, membersCollection, opts)
}

// Update merges the patch and stamps updatedAt. Relinking the member to
// another user moves its index reference in the same transaction.
func (r *memberRepository) Update(ctx context.Context, clubID, memberID string, patch models.MemberPatch) error {
	if err := checkID("clubId", clubID); err != nil {
		return err
	}
	if err := checkID("memberId", memberID); err != nil {
		return err
	}
	if err := models.Validate(patch); err != nil {
		return err
	}
	if patch.UserID != nil && *patch.UserID != "" {
		if err := checkID("userId", *patch.UserID); err != nil {
			return err
		}
	}
	path := memberPath(clubID, memberID)
	updates := append(toUpdates(patch.Updates()), Update{Path: "updatedAt", Value: ServerTimestamp})

	if patch.UserID == nil {
		if err := r.store.Update(ctx, path, updates); err != nil {
			return fmt.Errorf("failed to update member '%s' of club '%s': %w", memberID, clubID, err)
		}
		return nil
	}

	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		var current models.Member
		found, err := tx.Get(path, &current)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("member '%s': %w", memberID, ErrNotFound)
		}
		oldUID, newUID := current.LinkedUserID(), *patch.UserID
		if oldUID != newUID {
			deltas := make(map[string]int64)
			if oldUID != "" {
				deltas[oldUID]--
			}
			if newUID != "" {
				deltas[newUID]++
			}
			if err := applyMembershipDeltas(tx, clubID, deltas); err != nil {
				return err
			}
		}
		var link any
		if newUID != "" {
			link = newUID
		}
		return tx.Update(path, append(updates, Update{Path: "userId", Value: link}))
	})
	if err != nil {
		return fmt.Errorf("failed to update member '%s' of club '%s': %w", memberID, clubID, err)
	}
	return nil
}

// Delete removes the member and, in the same transaction, decrements the
// club's memberCount and releases the linked user's index reference.
// Deleting a member that does not exist fails with ErrNotFound and leaves the
// counter untouched.
func (r *memberRepository) Delete(ctx context.Context, clubID, memberID string) error {
	if err := checkID("clubId", clubID); err != nil {
		return err
	}
	if err := checkID("memberId", memberID); err != nil {
		return err
	}
	path := memberPath(clubID, memberID)
	err := r.store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		var member models.Member
		found, err := tx.Get(path, &member)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("member '%s': %w", memberID, ErrNotFound)
		}
		if uid := member.LinkedUserID(); uid != "" {
			if err := applyMembershipDeltas(tx, clubID, map[string]int64{uid: -1}); err != nil {
				return err
			}
		}
		if err := tx.Delete(path); err != nil {
			return err
		}
		return tx.Update(clubPath(clubID), []Update{{Path: "memberCount", Value: Increment(-1)}})
	})
	if err != nil {
		return fmt.Errorf("failed to delete member '%s' of club '%s': %w", memberID, clubID, err)
	}
	return nil
}

// ListByUser runs a collection-group scan over the members of every club.
func (r *memberRepository) ListByUser(ctx context.Context, userID string) ([]*models.Member, error) {
	if err := checkID("userId", userID); err != nil {
		return nil, err
	}
	snaps, err := r.store.Query(ctx, Query{
		Collection: membersCollection,
		Group:      true,
		Filters:    []Filter{{Field: "userId", Op: "==", Value: userID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan memberships of user '%s': %w", userID, err)
	}
	return decodeAll[models.Member](snaps, "member")
}
