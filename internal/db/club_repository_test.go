package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub-backend-go/internal/models"
)

func TestClubCreateDerivesSlugAndDefaults(t *testing.T) {
	r := newTestRepos(t)
	club := r.createClub(t, "Club Deportivo Los Halcones!")

	assert.Equal(t, "club-deportivo-los-halcones", club.Slug)
	assert.Equal(t, club.Slug, club.Settings.PortalSlug)
	assert.Zero(t, club.MemberCount)
	assert.False(t, club.CreatedAt.IsZero())
	assert.Equal(t, club.CreatedAt, club.UpdatedAt)

	bySlug, err := r.clubs.GetBySlug(context.Background(), club.Slug)
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, club.ID, bySlug.ID)
}

func TestClubCreateSuffixesTakenSlugs(t *testing.T) {
	r := newTestRepos(t)
	first := r.createClub(t, "Halcones")
	second := r.createClub(t, "Halcones")
	third := r.createClub(t, "halcones")

	assert.Equal(t, "halcones", first.Slug)
	assert.Equal(t, "halcones-2", second.Slug)
	assert.Equal(t, "halcones-3", third.Slug)
	assert.Equal(t, "halcones-3", third.Settings.PortalSlug)
}

func TestClubCreateSlugExhausted(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	require.NoError(t, r.store.Set(ctx, slugPath("halcones"), &models.ClubSlugClaim{Slug: "halcones", ClubID: "x"}))
	for i := 2; i <= maxSlugAttempts; i++ {
		slug := fmt.Sprintf("halcones-%d", i)
		require.NoError(t, r.store.Set(ctx, slugPath(slug), &models.ClubSlugClaim{Slug: slug, ClubID: "x"}))
	}

	_, err := r.clubs.Create(ctx, &models.Club{
		Name: "Halcones", Type: models.ClubTypeSports, OwnerID: "o", Settings: models.DefaultClubSettings(),
	})
	assert.ErrorIs(t, err, ErrSlugTaken)
	assert.Empty(t, r.store.Paths("clubs/"))
}

func TestClubCreateRejectsInvalidInput(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.clubs.Create(ctx, &models.Club{
		Name: "Halcones", Type: "futbol", OwnerID: "o", Settings: models.DefaultClubSettings(),
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = r.clubs.Create(ctx, &models.Club{
		Name: "!!!", Type: models.ClubTypeSocial, OwnerID: "o", Settings: models.DefaultClubSettings(),
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Empty(t, r.store.Paths(""))
}

func TestClubReadsOfMissingIDsAreAbsent(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")

	for i := 0; i < 3; i++ {
		got, err := r.clubs.GetByID(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, got)

		member, err := r.members.Get(ctx, club.ID, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, member)

		payment, err := r.payments.Get(ctx, club.ID, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, payment)

		bySlug, err := r.clubs.GetBySlug(ctx, "no-such-slug")
		require.NoError(t, err)
		assert.Nil(t, bySlug)
	}
}

func TestClubUpdate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")

	name := "Halcones del Sur"
	color := "#ff0000"
	require.NoError(t, r.clubs.Update(ctx, club.ID, models.ClubPatch{
		Name:     &name,
		Settings: &models.ClubSettingsPatch{BrandColor: &color},
	}))

	got, err := r.clubs.GetByID(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, "Halcones del Sur", got.Name)
	assert.Equal(t, "#ff0000", got.Settings.BrandColor)
	assert.Equal(t, "halcones", got.Slug, "slug is stable across renames")
	assert.Equal(t, models.DefaultCurrency, got.Settings.Currency)

	bad := models.ClubType("futbol")
	assert.ErrorIs(t, r.clubs.Update(ctx, club.ID, models.ClubPatch{Type: &bad}), models.ErrValidation)
	assert.ErrorIs(t, r.clubs.Update(ctx, "missing", models.ClubPatch{Name: &name}), ErrNotFound)
}

func TestClubListByOwner(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	r.createClub(t, "Halcones")
	r.createClub(t, "Cóndores")
	_, err := r.clubs.Create(ctx, &models.Club{
		Name: "Ajeno", Type: models.ClubTypeOther, OwnerID: "someone-else", Settings: models.DefaultClubSettings(),
	})
	require.NoError(t, err)

	owned, err := r.clubs.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, owned, 2)
	for _, c := range owned {
		assert.Equal(t, "owner-1", c.OwnerID)
	}
}

func TestListForUserDeduplicates(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	a := r.createClub(t, "Club A")
	b := r.createClub(t, "Club B")
	r.createClub(t, "Club C")

	uid := strPtr("user-7")
	r.addMember(t, a.ID, "Ana", "López", uid)
	r.addMember(t, a.ID, "Ana", "López (tutora)", uid)
	r.addMember(t, b.ID, "Ana", "López", uid)

	clubs, err := r.clubs.ListForUser(ctx, "user-7")
	require.NoError(t, err)

	var ids []string
	for _, c := range clubs {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	none, err := r.clubs.ListForUser(ctx, "user-without-clubs")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListForUserDropsDeletedClubs(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	a := r.createClub(t, "Club A")
	b := r.createClub(t, "Club B")
	uid := strPtr("user-7")
	r.addMember(t, a.ID, "Ana", "López", uid)
	r.addMember(t, b.ID, "Ana", "López", uid)

	// Simulate an index entry left behind by a club removed out of band.
	require.NoError(t, r.store.Delete(ctx, clubPath(b.ID)))

	clubs, err := r.clubs.ListForUser(ctx, "user-7")
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, a.ID, clubs[0].ID)
}

func TestClubDeleteCascades(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")
	other := r.createClub(t, "Cóndores")

	uid := strPtr("user-7")
	memberID := r.addMember(t, club.ID, "Ana", "López", uid)
	r.addMember(t, club.ID, "Pedro", "Soto", nil)
	r.addMember(t, other.ID, "Ana", "López", uid)
	_, err := r.payments.Create(ctx, club.ID, &models.Payment{
		MemberID: memberID, MemberName: "Ana López", Amount: 35000, Currency: "CLP",
		Concept: "Cuota Mensual", Status: models.PaymentPending, DueDate: dueDate(),
	})
	require.NoError(t, err)
	require.NoError(t, r.audit.Create(ctx, club.ID, models.AuditLog{UserID: "owner-1", Action: models.AuditClubCreate}))

	require.NoError(t, r.clubs.Delete(ctx, club.ID))

	assert.Empty(t, r.store.Paths(clubPath(club.ID)+"/"))
	assert.Empty(t, r.store.Paths(slugPath(club.Slug)))
	got, err := r.clubs.GetByID(ctx, club.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ids, err := r.index.ClubIDs(ctx, "user-7")
	require.NoError(t, err)
	assert.Equal(t, []string{other.ID}, ids)

	assert.Equal(t, int64(1), r.memberCount(t, other.ID))
	assert.ErrorIs(t, r.clubs.Delete(ctx, club.ID), ErrNotFound)

	// The freed slug can be claimed again.
	again := r.createClub(t, "Halcones")
	assert.Equal(t, "halcones", again.Slug)
}

func TestRecountMembersRepairsDrift(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")
	r.addMember(t, club.ID, "Ana", "López", nil)
	r.addMember(t, club.ID, "Pedro", "Soto", nil)

	result, err := r.clubs.RecountMembers(ctx, club.ID)
	require.NoError(t, err)
	assert.False(t, result.Drifted())
	assert.Equal(t, int64(2), result.After)

	// Drift introduced by a writer that bypassed the repository.
	require.NoError(t, r.store.Update(ctx, clubPath(club.ID), []Update{{Path: "memberCount", Value: Increment(5)}}))

	result, err = r.clubs.RecountMembers(ctx, club.ID)
	require.NoError(t, err)
	assert.True(t, result.Drifted())
	assert.Equal(t, int64(7), result.Before)
	assert.Equal(t, int64(2), result.After)
	assert.Equal(t, int64(2), r.memberCount(t, club.ID))

	_, err = r.clubs.RecountMembers(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListIDsPages(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	want := make([]string, 0, listIDsPageSize+5)
	for i := 0; i < listIDsPageSize+5; i++ {
		id := fmt.Sprintf("club-%03d", i)
		require.NoError(t, r.store.Set(ctx, clubPath(id), &models.Club{ID: id}))
		want = append(want, id)
	}

	ids, err := r.clubs.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, ids)
}
