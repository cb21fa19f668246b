package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub-backend-go/internal/models"
)

// A club's first month: one member, a single charge, one bulk charge, then
// the member leaves.
func TestClubLifecycle(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	club := r.createClub(t, "Club Deportivo Halcones")
	assert.Equal(t, "club-deportivo-halcones", club.Slug)
	assert.Zero(t, club.MemberCount)

	anaID := r.addMember(t, club.ID, "Ana", "López", strPtr("user-ana"))
	assert.Equal(t, int64(1), r.memberCount(t, club.ID))

	ids, err := r.index.ClubIDs(ctx, "user-ana")
	require.NoError(t, err)
	assert.Equal(t, []string{club.ID}, ids)

	members, err := r.members.List(ctx, club.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, members, 1)

	first := monthlyFee()
	first.Status = models.PaymentPending
	firstID, err := r.payments.Create(ctx, club.ID, first.ForMember(club.ID, members[0]))
	require.NoError(t, err)

	paymentIDs, err := r.payments.CreateBulk(ctx, club.ID, members, monthlyFee())
	require.NoError(t, err)
	require.Len(t, paymentIDs, 1)
	assert.NotEqual(t, firstID, paymentIDs[0])

	all, err := r.payments.List(ctx, club.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, p := range all {
		assert.Equal(t, "Ana López", p.MemberName)
		assert.Equal(t, int64(35000), p.Amount)
		assert.Equal(t, models.PaymentPending, p.Status)
	}

	p, err := r.payments.Get(ctx, club.ID, paymentIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "Ana López", p.MemberName)
	assert.Equal(t, anaID, p.MemberID)
	assert.Equal(t, "Cuota Mensual", p.Concept)
	assert.True(t, p.DueDate.Equal(dueDate()))

	require.NoError(t, r.members.Delete(ctx, club.ID, anaID))
	assert.Zero(t, r.memberCount(t, club.ID))

	members, err = r.members.List(ctx, club.ID, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, members)

	ids, err = r.index.ClubIDs(ctx, "user-ana")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Payments outlive the member they were charged to.
	p, err = r.payments.Get(ctx, club.ID, paymentIDs[0])
	require.NoError(t, err)
	assert.NotNil(t, p)

	found, err := r.clubs.ListForUser(ctx, "user-ana")
	require.NoError(t, err)
	assert.Empty(t, found)
}
