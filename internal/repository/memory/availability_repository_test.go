package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/medibook/internal/domain/availability"
	"github.com/medibook/medibook/internal/domain/slot"
)

func TestMerge_Idempotent(t *testing.T) {
	repo := NewAvailabilityRepository()
	ctx := context.Background()
	provider := uuid.New()
	labels := []slot.TimeLabel{slot.Label0900, slot.Label1100}

	first, err := repo.Merge(ctx, provider, "2025-05-01", labels)
	require.NoError(t, err)

	second, err := repo.Merge(ctx, provider, "2025-05-01", labels)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, []slot.TimeLabel{slot.Label0900, slot.Label1100}, second.Labels)
}

func TestMerge_Union(t *testing.T) {
	repo := NewAvailabilityRepository()
	ctx := context.Background()
	provider := uuid.New()

	_, err := repo.Merge(ctx, provider, "2025-05-01", []slot.TimeLabel{slot.Label0900, slot.Label1100})
	require.NoError(t, err)

	got, err := repo.Merge(ctx, provider, "2025-05-01", []slot.TimeLabel{slot.Label1100, slot.Label1400})
	require.NoError(t, err)

	assert.Equal(t, []slot.TimeLabel{slot.Label0900, slot.Label1100, slot.Label1400}, got.Labels)
}

func TestMerge_ConcurrentMergesLoseNothing(t *testing.T) {
	repo := NewAvailabilityRepository()
	ctx := context.Background()
	provider := uuid.New()

	all := slot.AllLabels()
	var wg sync.WaitGroup
	start := make(chan struct{})
	for _, l := range all {
		wg.Add(1)
		go func(l slot.TimeLabel) {
			defer wg.Done()
			<-start
			_, err := repo.Merge(ctx, provider, "2025-05-01", []slot.TimeLabel{l})
			assert.NoError(t, err)
		}(l)
	}
	close(start)
	wg.Wait()

	entries, err := repo.ListByProvider(ctx, provider)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, all, entries[0].Labels)
}

func TestDelete(t *testing.T) {
	repo := NewAvailabilityRepository()
	ctx := context.Background()
	provider := uuid.New()

	e, err := repo.Merge(ctx, provider, "2025-05-01", []slot.TimeLabel{slot.Label0900})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, e.ID))
	assert.ErrorIs(t, repo.Delete(ctx, e.ID), availability.ErrEntryNotFound)

	open, err := repo.HasSlot(ctx, provider, "2025-05-01", slot.Label0900)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestListByProvider_OrderedByDate(t *testing.T) {
	repo := NewAvailabilityRepository()
	ctx := context.Background()
	provider := uuid.New()

	for _, d := range []slot.Date{"2025-05-03", "2025-05-01", "2025-05-02"} {
		_, err := repo.Merge(ctx, provider, d, []slot.TimeLabel{slot.Label0900})
		require.NoError(t, err)
	}

	entries, err := repo.ListByProvider(ctx, provider)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, slot.Date("2025-05-01"), entries[0].Date)
	assert.Equal(t, slot.Date("2025-05-02"), entries[1].Date)
	assert.Equal(t, slot.Date("2025-05-03"), entries[2].Date)
}

func TestHasSlot(t *testing.T) {
	repo := NewAvailabilityRepository()
	ctx := context.Background()
	provider := uuid.New()

	_, err := repo.Merge(ctx, provider, "2025-05-01", []slot.TimeLabel{slot.Label0900})
	require.NoError(t, err)

	open, err := repo.HasSlot(ctx, provider, "2025-05-01", slot.Label0900)
	require.NoError(t, err)
	assert.True(t, open)

	open, err = repo.HasSlot(ctx, provider, "2025-05-01", slot.Label1100)
	require.NoError(t, err)
	assert.False(t, open)

	open, err = repo.HasSlot(ctx, uuid.New(), "2025-05-01", slot.Label0900)
	require.NoError(t, err)
	assert.False(t, open)
}
