// Package postgres implements the stores on gorm. The booking ledger's
// exclusivity lives in a partial unique index over active bookings, so the
// database arbitrates concurrent inserts for the same slot key.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/medibook/medibook/internal/domain/booking"
)

const uniqueViolation = "23505"

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

var _ booking.Repository = (*BookingRepository)(nil)

// CreateExclusive relies on idx_bookings_active_slot (partial unique over
// provider_id, date, time_label WHERE status IN ('pending','confirmed')).
// A unique violation means another active booking already holds the key.
func (r *BookingRepository) CreateExclusive(ctx context.Context, b *booking.Booking) error {
	b.Status = booking.StatusPending
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return booking.ErrSlotTaken
		}
		return fmt.Errorf("inserting booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading booking: %w", err)
	}
	return &b, nil
}

// UpdateStatus is a compare-and-set: the WHERE clause pins the prior status,
// so of two concurrent updates from the same state only one sees a row.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, prior, next booking.Status) (*booking.Booking, error) {
	res := r.db.WithContext(ctx).
		Model(&booking.Booking{}).
		Where("id = ? AND status = ?", id, prior).
		Update("status", next)
	if res.Error != nil {
		return nil, fmt.Errorf("updating booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing booking from a lost race.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, booking.ErrInvalidStatusTransition
	}
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*booking.Booking, error) {
	return r.list(ctx, "provider_id = ?", providerID)
}

func (r *BookingRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*booking.Booking, error) {
	return r.list(ctx, "patient_id = ?", patientID)
}

func (r *BookingRepository) list(ctx context.Context, query string, arg any) ([]*booking.Booking, error) {
	var out []*booking.Booking
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("date ASC, time_label ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	return out, nil
}
