package availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/slot"
)

type Repository interface {
	// Merge unions labels into the entry for (provider, date), creating it
	// if absent. The merge must be atomic: two concurrent merges for the
	// same entry may not lose each other's labels.
	Merge(ctx context.Context, providerID uuid.UUID, date slot.Date, labels []slot.TimeLabel) (*Entry, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// Delete removes the entry outright, all labels for that date.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByProvider returns entries ordered by date ascending.
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*Entry, error)

	// HasSlot reports whether the provider has opened the given label on
	// the given date.
	HasSlot(ctx context.Context, providerID uuid.UUID, date slot.Date, label slot.TimeLabel) (bool, error)
}
