package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/booking"
	"github.com/medibook/medibook/internal/domain/slot"
)

type BookingRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*booking.Booking
	bySlot  map[slot.Key][]uuid.UUID
	keyLock keyedMutex[slot.Key]
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		byID:   make(map[uuid.UUID]*booking.Booking),
		bySlot: make(map[slot.Key][]uuid.UUID),
	}
}

var _ booking.Repository = (*BookingRepository)(nil)

// CreateExclusive holds a per-slot-key mutex across "check active booking,
// then insert". Exactly one of N concurrent calls for the same key wins;
// calls for different keys proceed in parallel.
func (r *BookingRepository) CreateExclusive(ctx context.Context, b *booking.Booking) error {
	key := b.Key()

	unlock := r.keyLock.Lock(key)
	defer unlock()

	// A booking can only become active through this method, and this method
	// is serialized per key, so the check below cannot be invalidated by a
	// concurrent insert for the same key.
	r.mu.RLock()
	taken := false
	for _, id := range r.bySlot[key] {
		if r.byID[id].Status.IsActive() {
			taken = true
			break
		}
	}
	r.mu.RUnlock()
	if taken {
		return booking.ErrSlotTaken
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.Status = booking.StatusPending
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	stored := *b
	r.mu.Lock()
	r.byID[stored.ID] = &stored
	r.bySlot[key] = append(r.bySlot[key], stored.ID)
	r.mu.Unlock()
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

// UpdateStatus is a compare-and-set on the prior status, so two concurrent
// updates cannot both succeed from the same state.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, prior, next booking.Status) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	if b.Status != prior {
		return nil, booking.ErrInvalidStatusTransition
	}
	b.Status = next
	b.UpdatedAt = time.Now()

	cp := *b
	return &cp, nil
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*booking.Booking, error) {
	return r.list(func(b *booking.Booking) bool { return b.ProviderID == providerID })
}

func (r *BookingRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*booking.Booking, error) {
	return r.list(func(b *booking.Booking) bool { return b.PatientID == patientID })
}

func (r *BookingRepository) list(match func(*booking.Booking) bool) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*booking.Booking
	for _, b := range r.byID {
		if match(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeLabel < out[j].TimeLabel
	})
	return out, nil
}
