// Package memory holds in-process store implementations. They back unit
// tests and single-node deployments; the postgres package is the durable
// equivalent.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/availability"
	"github.com/medibook/medibook/internal/domain/slot"
)

type entryKey struct {
	providerID uuid.UUID
	date       slot.Date
}

type AvailabilityRepository struct {
	mu      sync.RWMutex
	byKey   map[entryKey]*availability.Entry
	byID    map[uuid.UUID]*availability.Entry
	keyLock keyedMutex[entryKey]
}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{
		byKey: make(map[entryKey]*availability.Entry),
		byID:  make(map[uuid.UUID]*availability.Entry),
	}
}

var _ availability.Repository = (*AvailabilityRepository)(nil)

// Merge is atomic per (provider, date): concurrent merges for the same
// entry serialize on a per-key mutex, so neither side's labels are lost.
func (r *AvailabilityRepository) Merge(ctx context.Context, providerID uuid.UUID, date slot.Date, labels []slot.TimeLabel) (*availability.Entry, error) {
	key := entryKey{providerID: providerID, date: date}

	unlock := r.keyLock.Lock(key)
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byKey[key]; ok {
		e.Labels = slot.Union(e.Labels, labels)
		e.UpdatedAt = time.Now()
		return snapshotEntry(e), nil
	}

	e := &availability.Entry{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		ProviderID: providerID,
		Date:       date,
		Labels:     slot.Dedupe(labels),
	}
	r.byKey[key] = e
	r.byID[e.ID] = e
	return snapshotEntry(e), nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*availability.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, availability.ErrEntryNotFound
	}
	return snapshotEntry(e), nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return availability.ErrEntryNotFound
	}
	delete(r.byID, id)
	delete(r.byKey, entryKey{providerID: e.ProviderID, date: e.Date})
	return nil
}

func (r *AvailabilityRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*availability.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*availability.Entry
	for _, e := range r.byKey {
		if e.ProviderID == providerID && len(e.Labels) > 0 {
			out = append(out, snapshotEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *AvailabilityRepository) HasSlot(ctx context.Context, providerID uuid.UUID, date slot.Date, label slot.TimeLabel) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byKey[entryKey{providerID: providerID, date: date}]
	if !ok {
		return false, nil
	}
	return e.Has(label), nil
}

// snapshotEntry hands callers an immutable copy; the store remains the sole
// writer of its records.
func snapshotEntry(e *availability.Entry) *availability.Entry {
	cp := *e
	cp.Labels = append([]slot.TimeLabel(nil), e.Labels...)
	return &cp
}

// keyedMutex hands out one mutex per key so unrelated keys never contend.
type keyedMutex[K comparable] struct {
	locks sync.Map // K -> *sync.Mutex
}

func (m *keyedMutex[K]) Lock(key K) (unlock func()) {
	v, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu, ok := v.(*sync.Mutex)
	if !ok {
		panic(fmt.Sprintf("keyedMutex: unexpected value for key %v", key))
	}
	mu.Lock()
	return mu.Unlock
}
