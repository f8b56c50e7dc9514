package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"conversor/domain/datalogger"
	"conversor/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversion() *datalogger.Conversion {
	return &datalogger.Conversion{
		Filename: "dados.xlsx",
		Layout:   datalogger.LayoutSummaryReport,
		Table: datalogger.NewResultTable([]datalogger.DailyAggregate{{
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TempMax: 25, TempMin: 20, HumidityMax: 60, HumidityMin: 40,
		}}),
	}
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	id, err := store.Save(ctx, newConversion())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(7), id.Version())

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "dados.xlsx", got.Filename)
	assert.Equal(t, 1, got.Table.Len())
	assert.Equal(t, got.CreatedAt.Add(time.Minute), got.ExpiresAt)
}

func TestMemoryStoreSessionsAreIndependent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	first, err := store.Save(ctx, newConversion())
	require.NoError(t, err)
	other := newConversion()
	other.Filename = "outro.csv"
	second, err := store.Save(ctx, other)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	a, err := store.Get(ctx, first)
	require.NoError(t, err)
	b, err := store.Get(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "dados.xlsx", a.Filename)
	assert.Equal(t, "outro.csv", b.Filename)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	ctx := context.Background()

	id, err := store.Save(ctx, newConversion())
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, err = store.Get(ctx, id)
	assert.True(t, errors.Is(err, ports.ErrResultNotFound))
	assert.Equal(t, 1, store.Len(), "expired entries stay until purged")

	n, err := store.Purge(ctx, clock)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(0)
	id, err := store.Save(context.Background(), newConversion())
	require.NoError(t, err)

	n, err := store.Purge(context.Background(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = store.Get(context.Background(), id)
	assert.NoError(t, err)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	id, err := store.Save(ctx, newConversion())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ports.ErrResultNotFound)
	assert.NoError(t, store.Delete(ctx, uuid.New()))
}

func TestMemoryStoreRejectsNil(t *testing.T) {
	_, err := NewMemoryStore(time.Minute).Save(context.Background(), nil)
	assert.Error(t, err)
}

func TestMemoryStoreKeepsGivenID(t *testing.T) {
	conv := newConversion()
	conv.ID = uuid.New()
	id, err := NewMemoryStore(time.Minute).Save(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, id)
}

func TestStartPurger(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := store.Save(ctx, newConversion())
	require.NoError(t, err)

	done := StartPurger(ctx, store, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purger did not stop")
	}
}

func TestStartPurgerDisabled(t *testing.T) {
	done := StartPurger(context.Background(), NewMemoryStore(time.Minute), 0)
	_, open := <-done
	assert.False(t, open)
}
