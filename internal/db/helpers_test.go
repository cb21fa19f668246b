package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clubhub-backend-go/internal/models"
)

type testRepos struct {
	store    *MemoryStore
	index    UserClubIndex
	clubs    ClubRepository
	members  MemberRepository
	payments PaymentRepository
	users    UserRepository
	audit    AuditRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	store := NewMemoryStore()
	index := NewUserClubIndex(store)
	return &testRepos{
		store:    store,
		index:    index,
		clubs:    NewClubRepository(store, index),
		members:  NewMemberRepository(store),
		payments: NewPaymentRepository(store),
		users:    NewUserRepository(store),
		audit:    NewAuditRepository(store),
	}
}

func (r *testRepos) createClub(t *testing.T, name string) *models.Club {
	t.Helper()
	club := &models.Club{
		Name:     name,
		Type:     models.ClubTypeSports,
		OwnerID:  "owner-1",
		IsActive: true,
		Settings: models.DefaultClubSettings(),
	}
	id, err := r.clubs.Create(context.Background(), club)
	require.NoError(t, err)

	stored, err := r.clubs.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	return stored
}

func (r *testRepos) addMember(t *testing.T, clubID, first, last string, userID *string) string {
	t.Helper()
	id, err := r.members.Add(context.Background(), clubID, &models.Member{
		FirstName: first,
		LastName:  last,
		Role:      models.RoleMember,
		IsActive:  true,
		UserID:    userID,
	})
	require.NoError(t, err)
	return id
}

func (r *testRepos) memberCount(t *testing.T, clubID string) int64 {
	t.Helper()
	club, err := r.clubs.GetByID(context.Background(), clubID)
	require.NoError(t, err)
	require.NotNil(t, club)
	return club.MemberCount
}

func strPtr(s string) *string { return &s }

func dueDate() time.Time { return time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC) }
