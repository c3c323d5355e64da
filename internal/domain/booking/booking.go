package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/slot"
)

// State transitions possibilities:
//
//	pending -> confirmed -> completed
//	pending -> cancelled
//	confirmed -> cancelled
//
// Completed and cancelled are terminal. Pending is only ever entered by
// creating a new booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the status holds its slot exclusively. Completed
// and cancelled bookings release the slot for re-booking.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransition is the pure transition check. It has no side effects and is
// safe to call without locking.
func CanTransition(from, to Status) bool {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Booking is one request to occupy a slot key, carrying a lifecycle status.
// Bookings are never deleted; cancellation is a terminal status, which
// preserves audit history.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;not null;index"`
	PatientID  uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	Date      slot.Date      `gorm:"column:date;type:varchar(10);not null"`
	TimeLabel slot.TimeLabel `gorm:"column:time_label;type:varchar(5);not null"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
}

func (Booking) TableName() string {
	return "scheduling.bookings"
}

func (b *Booking) Key() slot.Key {
	return slot.Key{ProviderID: b.ProviderID, Date: b.Date, Label: b.TimeLabel}
}

func (b *Booking) CanTransitionTo(newStatus Status) bool {
	return CanTransition(b.Status, newStatus)
}

type CreateBookingCommand struct {
	ProviderID uuid.UUID
	PatientID  uuid.UUID
	Date       slot.Date
	TimeLabel  slot.TimeLabel
}
