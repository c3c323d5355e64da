package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medibook/medibook/internal/domain/availability"
	"github.com/medibook/medibook/internal/domain/slot"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

var _ availability.Repository = (*AvailabilityRepository)(nil)

// Merge unions labels under a row lock so two concurrent merges for the
// same (provider, date) serialize instead of overwriting each other.
func (r *AvailabilityRepository) Merge(ctx context.Context, providerID uuid.UUID, date slot.Date, labels []slot.TimeLabel) (*availability.Entry, error) {
	var out *availability.Entry

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e availability.Entry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("provider_id = ? AND date = ?", providerID, date).
			First(&e).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			e = availability.Entry{
				ProviderID: providerID,
				Date:       date,
				Labels:     slot.Dedupe(labels),
			}
			if err := tx.Create(&e).Error; err != nil {
				return fmt.Errorf("creating availability entry: %w", err)
			}
		case err != nil:
			return fmt.Errorf("locking availability entry: %w", err)
		default:
			e.Labels = slot.Union(e.Labels, labels)
			if err := tx.Model(&e).Update("labels", e.Labels).Error; err != nil {
				return fmt.Errorf("merging availability labels: %w", err)
			}
		}

		out = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*availability.Entry, error) {
	var e availability.Entry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, availability.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading availability entry: %w", err)
	}
	return &e, nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&availability.Entry{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting availability entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return availability.ErrEntryNotFound
	}
	return nil
}

func (r *AvailabilityRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*availability.Entry, error) {
	var out []*availability.Entry
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("date ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing availability: %w", err)
	}
	// Empty entries are equivalent to no entry.
	pruned := out[:0]
	for _, e := range out {
		if len(e.Labels) > 0 {
			pruned = append(pruned, e)
		}
	}
	return pruned, nil
}

func (r *AvailabilityRepository) HasSlot(ctx context.Context, providerID uuid.UUID, date slot.Date, label slot.TimeLabel) (bool, error) {
	var e availability.Entry
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND date = ?", providerID, date).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking slot: %w", err)
	}
	return e.Has(label), nil
}
