package core

import (
	"context"
	"errors"
	"fmt"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

var (
	ErrClubNotFound    = errors.New("club not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrForbiddenAccess = errors.New("user does not have permission for this action on the club")
)

type accessLevel int

const (
	accessRead accessLevel = iota
	accessWrite
	accessOwner
)

// clubGuard resolves a club and checks the caller's rights on it. The owner
// may do anything; an active member linked to the caller may read, and one
// holding a managing role may also write.
type clubGuard struct {
	clubs   db.ClubRepository
	members db.MemberRepository
}

func (g clubGuard) authorize(ctx context.Context, userID, clubID string, level accessLevel) (*models.Club, error) {
	if userID == "" {
		return nil, ErrForbiddenAccess
	}
	club, err := g.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to get club '%s': %w", clubID, err)
	}
	if club == nil {
		return nil, fmt.Errorf("%w: club with ID '%s'", ErrClubNotFound, clubID)
	}
	if club.OwnerID == userID {
		return club, nil
	}
	if level == accessOwner {
		return nil, fmt.Errorf("%w: only the owner may do this", ErrForbiddenAccess)
	}

	rows, err := g.members.List(ctx, clubID, db.ListOptions{
		Where: []db.Filter{{Field: "userId", Op: "==", Value: userID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve membership in club '%s': %w", clubID, err)
	}
	for _, m := range rows {
		if !m.IsActive {
			continue
		}
		if level == accessRead || m.Role.CanManage() {
			return club, nil
		}
	}
	return nil, fmt.Errorf("%w: user '%s' on club '%s'", ErrForbiddenAccess, userID, clubID)
}

// memberOf returns the member or ErrMemberNotFound.
func memberOf(ctx context.Context, members db.MemberRepository, clubID, memberID string) (*models.Member, error) {
	m, err := members.Get(ctx, clubID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member '%s': %w", memberID, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: member with ID '%s'", ErrMemberNotFound, memberID)
	}
	return m, nil
}

// notFoundAs replaces a store ErrNotFound with the service's own sentinel.
func notFoundAs(err, sentinel error, format string, args ...any) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
	}
	return err
}
