package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub-backend-go/internal/models"
)

func TestMemberCountTracksAddsAndDeletes(t *testing.T) {
	tests := []struct {
		name    string
		adds    int
		deletes int
	}{
		{"no deletes", 5, 0},
		{"some deletes", 7, 3},
		{"all deleted", 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRepos(t)
			ctx := context.Background()
			club := r.createClub(t, "Halcones")

			var ids []string
			for i := 0; i < tt.adds; i++ {
				ids = append(ids, r.addMember(t, club.ID, "Socio", "Número", nil))
			}
			for _, id := range ids[:tt.deletes] {
				require.NoError(t, r.members.Delete(ctx, club.ID, id))
			}

			live, err := r.members.List(ctx, club.ID, ListOptions{})
			require.NoError(t, err)
			assert.Len(t, live, tt.adds-tt.deletes)
			assert.Equal(t, int64(len(live)), r.memberCount(t, club.ID))
		})
	}
}

func TestMemberDeleteMissingLeavesCounter(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")
	r.addMember(t, club.ID, "Ana", "López", nil)

	err := r.members.Delete(ctx, club.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(1), r.memberCount(t, club.ID))
}

func TestMemberAddToMissingClub(t *testing.T) {
	r := newTestRepos(t)
	_, err := r.members.Add(context.Background(), "missing", &models.Member{
		FirstName: "Ana", LastName: "López", Role: models.RoleMember,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, r.store.Paths(""))
}

func TestMemberAddRejectsUnknownRole(t *testing.T) {
	r := newTestRepos(t)
	club := r.createClub(t, "Halcones")
	_, err := r.members.Add(context.Background(), club.ID, &models.Member{
		FirstName: "Ana", LastName: "López", Role: "coach",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Zero(t, r.memberCount(t, club.ID))
}

func TestMemberAddIsAtomic(t *testing.T) {
	r := newTestRepos(t)
	club := r.createClub(t, "Halcones")
	r.store.FailWrites(func(op, path string) error {
		if path == clubPath(club.ID) {
			return assert.AnError
		}
		return nil
	})

	_, err := r.members.Add(context.Background(), club.ID, &models.Member{
		FirstName: "Ana", LastName: "López", Role: models.RoleMember, UserID: strPtr("user-7"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)

	r.store.FailWrites(nil)
	assert.Empty(t, r.store.Paths(clubCollection(club.ID, membersCollection)))
	assert.Empty(t, r.store.Paths(membershipCollection("user-7")))
	assert.Zero(t, r.memberCount(t, club.ID))
}

func TestMemberUpdateStampsAndRelinks(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")
	id := r.addMember(t, club.ID, "Ana", "López", strPtr("user-1"))

	before, err := r.members.Get(ctx, club.ID, id)
	require.NoError(t, err)

	role := models.RoleAdmin
	require.NoError(t, r.members.Update(ctx, club.ID, id, models.MemberPatch{Role: &role, UserID: strPtr("user-2")}))

	after, err := r.members.Get(ctx, club.ID, id)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, after.Role)
	assert.Equal(t, "user-2", after.LinkedUserID())
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))

	old, err := r.index.ClubIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, old)
	moved, err := r.index.ClubIDs(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, []string{club.ID}, moved)

	require.NoError(t, r.members.Update(ctx, club.ID, id, models.MemberPatch{UserID: strPtr("")}))
	after, err = r.members.Get(ctx, club.ID, id)
	require.NoError(t, err)
	assert.Nil(t, after.UserID)
	unlinked, err := r.index.ClubIDs(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, unlinked)

	assert.ErrorIs(t, r.members.Update(ctx, club.ID, "missing", models.MemberPatch{Role: &role}), ErrNotFound)
}

func TestMemberListFilters(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")
	r.addMember(t, club.ID, "Ana", "López", nil)
	id := r.addMember(t, club.ID, "Pedro", "Soto", nil)
	r.addMember(t, club.ID, "Berta", "Ríos", nil)
	inactive := false
	require.NoError(t, r.members.Update(ctx, club.ID, id, models.MemberPatch{IsActive: &inactive}))

	active, err := r.members.List(ctx, club.ID, ListOptions{
		Where:   []Filter{{Field: "isActive", Op: "==", Value: true}},
		OrderBy: []Order{{Field: "lastName"}},
	})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "López", active[0].LastName)
	assert.Equal(t, "Ríos", active[1].LastName)

	page, err := r.members.List(ctx, club.ID, ListOptions{
		OrderBy:    []Order{{Field: "lastName"}},
		StartAfter: active[0].ID,
		Limit:      1,
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Ríos", page[0].LastName)

	_, err = r.members.List(ctx, club.ID, ListOptions{Where: []Filter{{Field: "rut", Op: "==", Value: "1-9"}}})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = r.members.List(ctx, club.ID, ListOptions{Where: []Filter{{Field: "role", Op: "like", Value: "a"}}})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRebuildMembershipIndex(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	a := r.createClub(t, "Club A")
	b := r.createClub(t, "Club B")
	uid := strPtr("user-7")
	r.addMember(t, a.ID, "Ana", "López", uid)
	r.addMember(t, b.ID, "Ana", "López", uid)

	// Corrupt the index: drop one entry, add a stale one.
	require.NoError(t, r.store.Delete(ctx, membershipPath("user-7", a.ID)))
	require.NoError(t, r.store.Set(ctx, membershipPath("user-7", "stale"), &models.UserClubMembership{UserID: "user-7", ClubID: "stale", Memberships: 1}))

	require.NoError(t, r.index.RebuildForUser(ctx, "user-7"))

	ids, err := r.index.ClubIDs(ctx, "user-7")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	rows, err := r.members.ListByUser(ctx, "user-7")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
