package db

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub-backend-go/internal/models"
)

func monthlyFee() models.PaymentTemplate {
	return models.PaymentTemplate{
		Amount:   35000,
		Currency: "CLP",
		Concept:  "Cuota Mensual",
		DueDate:  dueDate(),
	}
}

func (r *testRepos) membersOf(t *testing.T, clubID string, n int) []*models.Member {
	t.Helper()
	for i := 0; i < n; i++ {
		r.addMember(t, clubID, "Socio", fmt.Sprintf("Número %d", i), nil)
	}
	members, err := r.members.List(context.Background(), clubID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, members, n)
	return members
}

func TestCreateBulkWritesOnePaymentPerMember(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")
	members := r.membersOf(t, club.ID, 3)

	ids, err := r.payments.CreateBulk(ctx, club.ID, members, monthlyFee())
	require.NoError(t, err)
	require.Len(t, ids, 3)

	seen := make(map[string]bool)
	for i, id := range ids {
		assert.False(t, seen[id], "duplicate payment id %s", id)
		seen[id] = true

		p, err := r.payments.Get(ctx, club.ID, id)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, members[i].ID, p.MemberID)
		assert.Equal(t, members[i].FullName(), p.MemberName)
		assert.Equal(t, club.ID, p.ClubID)
		assert.Equal(t, int64(35000), p.Amount)
		assert.Equal(t, models.PaymentPending, p.Status)
		assert.True(t, p.DueDate.Equal(dueDate()))
		assert.False(t, p.CreatedAt.IsZero())
	}
}

func TestCreateBulkIsAllOrNothing(t *testing.T) {
	r := newTestRepos(t)
	club := r.createClub(t, "Halcones")
	members := r.membersOf(t, club.ID, 4)

	creates := 0
	r.store.FailWrites(func(op, path string) error {
		if op == "create" && strings.Contains(path, "/payments/") {
			creates++
			if creates == 2 {
				return assert.AnError
			}
		}
		return nil
	})

	ids, err := r.payments.CreateBulk(context.Background(), club.ID, members, monthlyFee())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Nil(t, ids)

	r.store.FailWrites(nil)
	assert.Empty(t, r.store.Paths(clubCollection(club.ID, paymentsCollection)))
}

func TestCreateBulkLimits(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")

	ids, err := r.payments.CreateBulk(ctx, club.ID, nil, monthlyFee())
	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)

	tooMany := make([]*models.Member, MaxBulkPayments+1)
	for i := range tooMany {
		tooMany[i] = &models.Member{ID: fmt.Sprintf("m-%d", i), FirstName: "A", LastName: "B"}
	}
	_, err = r.payments.CreateBulk(ctx, club.ID, tooMany, monthlyFee())
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	bad := monthlyFee()
	bad.Amount = 0
	_, err = r.payments.CreateBulk(ctx, club.ID, tooMany[:2], bad)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = r.payments.CreateBulk(ctx, club.ID, []*models.Member{{FirstName: "A"}}, monthlyFee())
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Empty(t, r.store.Paths(clubCollection(club.ID, paymentsCollection)))
}

func TestPaymentUpdateStampsPaidAt(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")
	members := r.membersOf(t, club.ID, 1)

	created := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	r.store.SetClock(func() time.Time { return created })
	ids, err := r.payments.CreateBulk(ctx, club.ID, members, monthlyFee())
	require.NoError(t, err)

	settled := created.Add(48 * time.Hour)
	r.store.SetClock(func() time.Time { return settled })
	paid := models.PaymentPaid
	require.NoError(t, r.payments.Update(ctx, club.ID, ids[0], models.PaymentPatch{Status: &paid}))

	p, err := r.payments.Get(ctx, club.ID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)
	require.NotNil(t, p.PaidAt)
	assert.True(t, p.PaidAt.Equal(settled))
	assert.True(t, p.UpdatedAt.Equal(settled))
	assert.True(t, p.CreatedAt.Equal(created))

	// Settling an already settled payment again keeps the first paidAt.
	later := settled.Add(24 * time.Hour)
	r.store.SetClock(func() time.Time { return later })
	require.NoError(t, r.payments.Update(ctx, club.ID, ids[0], models.PaymentPatch{Status: &paid}))
	p, err = r.payments.Get(ctx, club.ID, ids[0])
	require.NoError(t, err)
	assert.True(t, p.PaidAt.Equal(settled))
	assert.True(t, p.UpdatedAt.Equal(later))

	explicit := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.payments.Update(ctx, club.ID, ids[0], models.PaymentPatch{Status: &paid, PaidAt: &explicit}))
	p, err = r.payments.Get(ctx, club.ID, ids[0])
	require.NoError(t, err)
	assert.True(t, p.PaidAt.Equal(explicit))

	assert.ErrorIs(t, r.payments.Update(ctx, club.ID, "missing", models.PaymentPatch{Status: &paid}), ErrNotFound)
}

func TestPaymentListByStatus(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	club := r.createClub(t, "Halcones")
	members := r.membersOf(t, club.ID, 3)
	ids, err := r.payments.CreateBulk(ctx, club.ID, members, monthlyFee())
	require.NoError(t, err)

	paid := models.PaymentPaid
	require.NoError(t, r.payments.Update(ctx, club.ID, ids[1], models.PaymentPatch{Status: &paid}))

	pending, err := r.payments.List(ctx, club.ID, ListOptions{
		Where: []Filter{{Field: "status", Op: "==", Value: string(models.PaymentPending)}},
	})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	byMember, err := r.payments.List(ctx, club.ID, ListOptions{
		Where: []Filter{{Field: "memberId", Op: "==", Value: members[2].ID}},
	})
	require.NoError(t, err)
	require.Len(t, byMember, 1)
	assert.Equal(t, ids[2], byMember[0].ID)
}
