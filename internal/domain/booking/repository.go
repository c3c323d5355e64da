package booking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateExclusive inserts a new pending booking only if no booking with
	// the same slot key is currently active (pending or confirmed). Check
	// and insert are a single atomic step; on an existing active booking it
	// returns ErrSlotTaken and leaves no partial state. Inserts for
	// different slot keys must not block one another.
	CreateExclusive(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// UpdateStatus transitions the booking from its expected prior status
	// to the new one as one atomic compare-and-set. If the booking's status
	// no longer matches prior, it returns ErrInvalidStatusTransition.
	UpdateStatus(ctx context.Context, id uuid.UUID, prior, next Status) (*Booking, error)

	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*Booking, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Booking, error)
}
