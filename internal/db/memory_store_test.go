package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"clubhub-backend-go/internal/models"
)

func TestMemoryStoreGetAbsent(t *testing.T) {
	store := NewMemoryStore()
	var club models.Club
	found, err := store.Get(context.Background(), "clubs/nope", &club)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreCopiesDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	club := &models.Club{ID: "c1", Name: "Halcones", Settings: models.DefaultClubSettings()}
	require.NoError(t, store.Create(ctx, "clubs/c1", club))

	club.Name = "mutated after write"
	club.Settings.PaymentMethods[0] = models.MethodCash

	var got models.Club
	found, err := store.Get(ctx, "clubs/c1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Halcones", got.Name)
	assert.Equal(t, models.MethodTransfer, got.Settings.PaymentMethods[0])
}

func TestMemoryStoreKeepsEmptyAndNilDistinct(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	empty := ""
	settings := models.DefaultClubSettings()
	settings.PaymentMethods = []models.PaymentMethod{}
	settings.ReminderDaysBefore = []int{}
	require.NoError(t, store.Create(ctx, "clubs/c1", &models.Club{ID: "c1", Name: "Halcones", City: &empty, Settings: settings}))
	require.NoError(t, store.Create(ctx, "clubs/c1/events/e1", &models.Event{ID: "e1", Title: "Asamblea", Attendees: []string{}}))
	require.NoError(t, store.Create(ctx, "users/u1", &models.User{UID: "u1"}))

	var club models.Club
	_, err := store.Get(ctx, "clubs/c1", &club)
	require.NoError(t, err)
	assert.Equal(t, []models.PaymentMethod{}, club.Settings.PaymentMethods)
	assert.Equal(t, []int{}, club.Settings.ReminderDaysBefore)
	require.NotNil(t, club.City)
	assert.Equal(t, "", *club.City)

	snaps, err := store.Query(ctx, Query{Collection: "clubs/c1/events"})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	var event models.Event
	require.NoError(t, snaps[0].DataTo(&event))
	assert.NotNil(t, event.Attendees)
	assert.Empty(t, event.Attendees)

	var user models.User
	_, err = store.Get(ctx, "users/u1", &user)
	require.NoError(t, err)
	assert.Nil(t, user.Clubs)
}

func TestMemoryStoreServerTimestampsAndTransforms(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.Create(ctx, "clubs/c1", &models.Club{ID: "c1", Name: "Halcones"}))
	require.NoError(t, store.Update(ctx, "clubs/c1", []Update{
		{Path: "memberCount", Value: Increment(3)},
		{Path: "settings.currency", Value: "CLP"},
		{Path: "city", Value: "Temuco"},
	}))
	require.NoError(t, store.Update(ctx, "clubs/c1", []Update{{Path: "memberCount", Value: Increment(-1)}}))

	var got models.Club
	_, err := store.Get(ctx, "clubs/c1", &got)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(now))
	assert.True(t, got.UpdatedAt.Equal(now))
	assert.Equal(t, int64(2), got.MemberCount)
	assert.Equal(t, "CLP", got.Settings.Currency)
	require.NotNil(t, got.City)
	assert.Equal(t, "Temuco", *got.City)

	require.NoError(t, store.Create(ctx, "users/u1", &models.User{UID: "u1"}))
	require.NoError(t, store.Update(ctx, "users/u1", []Update{{Path: "clubs", Value: ArrayUnion("a", "b", "a")}}))
	require.NoError(t, store.Update(ctx, "users/u1", []Update{{Path: "clubs", Value: ArrayRemove("a")}}))
	var user models.User
	_, err = store.Get(ctx, "users/u1", &user)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, user.Clubs)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	err := NewMemoryStore().Update(context.Background(), "clubs/none", []Update{{Path: "name", Value: "x"}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCreateExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Create(ctx, "users/u1", &models.User{UID: "u1"}))
	assert.ErrorIs(t, store.Create(ctx, "users/u1", &models.User{UID: "u1"}), ErrAlreadyExists)
}

func TestMemoryStoreTransactionIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Create(ctx, "clubs/c1", &models.Club{ID: "c1"}))

	err := store.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Update("clubs/c1", []Update{{Path: "memberCount", Value: Increment(1)}}); err != nil {
			return err
		}
		// Fails at commit: the document already exists.
		return tx.Create("clubs/c1", &models.Club{ID: "c1"})
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var got models.Club
	_, err = store.Get(ctx, "clubs/c1", &got)
	require.NoError(t, err)
	assert.Zero(t, got.MemberCount)
}

func TestMemoryStoreRejectsReadAfterWrite(t *testing.T) {
	store := NewMemoryStore()
	err := store.RunTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		if err := tx.Set("users/u1", &models.User{UID: "u1"}); err != nil {
			return err
		}
		_, err := tx.Get("users/u1", &models.User{})
		return err
	})
	assert.ErrorIs(t, err, errReadAfterWrite)
	assert.Empty(t, store.Paths("users/"))
}

func TestMemoryStoreFailWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.FailWrites(func(op, path string) error {
		return status.Error(codes.Unavailable, "backend unavailable")
	})

	err := store.Set(ctx, "users/u1", &models.User{UID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.True(t, IsRetryable(err))

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "set", se.Op)
	assert.Equal(t, "users/u1", se.Path)

	store.FailWrites(nil)
	assert.NoError(t, store.Set(ctx, "users/u1", &models.User{UID: "u1"}))
}

func TestMemoryStoreQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, p := range []models.Payment{
		{ID: "p1", MemberID: "m1", Amount: 10000, Status: models.PaymentPending},
		{ID: "p2", MemberID: "m2", Amount: 35000, Status: models.PaymentPaid},
		{ID: "p3", MemberID: "m1", Amount: 20000, Status: models.PaymentPending},
		{ID: "p4", MemberID: "m3", Amount: 5000, Status: models.PaymentOverdue},
	} {
		p := p
		require.NoError(t, store.Create(ctx, "clubs/c1/payments/"+p.ID, &p))
	}
	require.NoError(t, store.Create(ctx, "clubs/c2/payments/x", &models.Payment{ID: "x", Status: models.PaymentPending}))

	ids := func(snaps []Snapshot) []string {
		var out []string
		for _, s := range snaps {
			out = append(out, s.ID)
		}
		return out
	}

	snaps, err := store.Query(ctx, Query{
		Collection: "clubs/c1/payments",
		Filters:    []Filter{{Field: "status", Op: "==", Value: "pending"}},
		Orders:     []Order{{Field: "amount", Desc: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1"}, ids(snaps))

	snaps, err = store.Query(ctx, Query{
		Collection: "clubs/c1/payments",
		Filters:    []Filter{{Field: "amount", Op: ">=", Value: 10000}},
		Orders:     []Order{{Field: "amount"}},
		Limit:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(snaps))

	snaps, err = store.Query(ctx, Query{
		Collection: "clubs/c1/payments",
		Orders:     []Order{{Field: "amount"}},
		StartAfter: "clubs/c1/payments/p3",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(snaps))

	snaps, err = store.Query(ctx, Query{
		Collection: "clubs/c1/payments",
		Filters:    []Filter{{Field: "status", Op: "in", Value: []string{"paid", "overdue"}}},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p2", "p4"}, ids(snaps))

	snaps, err = store.Query(ctx, Query{
		Collection: "payments",
		Group:      true,
		Filters:    []Filter{{Field: "status", Op: "==", Value: models.PaymentPending}},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p3", "x"}, ids(snaps))

	var first models.Payment
	require.NoError(t, snaps[0].DataTo(&first))
	assert.Equal(t, models.PaymentPending, first.Status)
}

func TestMemoryStoreRejectsBadPaths(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "clubs", &models.Club{})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.ErrorIs(t, store.Set(context.Background(), "clubs//x", &models.Club{}), models.ErrValidation)
}
