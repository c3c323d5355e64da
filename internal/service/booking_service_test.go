package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/medibook/internal/domain/availability"
	"github.com/medibook/medibook/internal/domain/booking"
	"github.com/medibook/medibook/internal/domain/directory"
	"github.com/medibook/medibook/internal/domain/slot"
)

func openSlots(t *testing.T, f *fixture, provider uuid.UUID, date slot.Date, labels ...slot.TimeLabel) {
	t.Helper()
	_, err := f.availability.AddSlots(context.Background(), &availability.AddSlotsCommand{
		ProviderID: provider,
		Date:       date,
		Labels:     labels,
	}, "test")
	require.NoError(t, err)
}

func TestBook_LifecycleScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	provider := uuid.New()

	openSlots(t, f, provider, "2025-05-01", slot.Label0900, slot.Label1100)

	// Patient A books the 09:00 slot.
	a, err := f.bookings.Book(ctx, &booking.CreateBookingCommand{
		ProviderID: provider,
		PatientID:  uuid.New(),
		Date:       "2025-05-01",
		TimeLabel:  slot.Label0900,
	}, "test")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, a.Status)

	// Patient B tries the same triple and conflicts.
	_, err = f.bookings.Book(ctx, &booking.CreateBookingCommand{
		ProviderID: provider,
		PatientID:  uuid.New(),
		Date:       "2025-05-01",
		TimeLabel:  slot.Label0900,
	}, "test")
	assert.ErrorIs(t, err, booking.ErrSlotTaken)

	// Provider confirms, then completes.
	upd, err := f.bookings.UpdateStatus(ctx, a.ID, booking.StatusConfirmed, provider, "provider", "test")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, upd.Status)

	upd, err = f.bookings.UpdateStatus(ctx, a.ID, booking.StatusCompleted, provider, "provider", "test")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCompleted, upd.Status)

	// Back to pending is illegal and leaves the status unchanged.
	_, err = f.bookings.UpdateStatus(ctx, a.ID, booking.StatusPending, provider, "provider", "test")
	assert.ErrorIs(t, err, booking.ErrInvalidStatusTransition)

	got, err := f.bookings.GetBooking(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCompleted, got.Status)
}

func TestBook_SlotNeverOpened(t *testing.T) {
	f := newFixture()

	_, err := f.bookings.Book(context.Background(), &booking.CreateBookingCommand{
		ProviderID: uuid.New(),
		PatientID:  uuid.New(),
		Date:       "2025-05-01",
		TimeLabel:  slot.Label0900,
	}, "test")
	assert.ErrorIs(t, err, booking.ErrSlotNotOpen)
}

func TestBook_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	provider := uuid.New()
	openSlots(t, f, provider, "2025-05-01", slot.Label0900)

	_, err := f.bookings.Book(ctx, &booking.CreateBookingCommand{
		PatientID: uuid.New(),
		Date:      "2025-05-01",
		TimeLabel: slot.Label0900,
	}, "test")
	assert.ErrorIs(t, err, booking.ErrMissingField)

	_, err = f.bookings.Book(ctx, &booking.CreateBookingCommand{
		ProviderID: provider,
		PatientID:  uuid.New(),
		Date:       "2025-05-01",
		TimeLabel:  "08:30",
	}, "test")
	assert.ErrorIs(t, err, availability.ErrUnknownLabel)

	_, err = f.bookings.Book(ctx, &booking.CreateBookingCommand{
		ProviderID: provider,
		PatientID:  uuid.New(),
		Date:       "May 1st",
		TimeLabel:  slot.Label0900,
	}, "test")
	assert.ErrorIs(t, err, availability.ErrInvalidDate)
}

func TestBook_RebookAfterCancellation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	provider := uuid.New()
	openSlots(t, f, provider, "2025-05-01", slot.Label0900)

	first, err := f.bookings.Book(ctx, &booking.CreateBookingCommand{
		ProviderID: provider,
		PatientID:  uuid.New(),
		Date:       "2025-05-01",
		TimeLabel:  slot.Label0900,
	}, "test")
	require.NoError(t, err)

	_, err = f.bookings.UpdateStatus(ctx, first.ID, booking.StatusCancelled, provider, "provider", "test")
	require.NoError(t, err)

	// Cancellation releases the slot without touching availability.
	second, err := f.bookings.Book(ctx, &booking.CreateBookingCommand{
		ProviderID: provider,
		PatientID:  uuid.New(),
		Date:       "2025-05-01",
		TimeLabel:  slot.Label0900,
	}, "test")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, second.Status)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.bookings.UpdateStatus(ctx, uuid.New(), booking.StatusConfirmed, uuid.New(), "provider", "test")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	provider := uuid.New()
	openSlots(t, f, provider, "2025-05-01", slot.Label0900)
	b, err := f.bookings.Book(ctx, &booking.CreateBookingCommand{
		ProviderID: provider,
		PatientID:  uuid.New(),
		Date:       "2025-05-01",
		TimeLabel:  slot.Label0900,
	}, "test")
	require.NoError(t, err)

	_, err = f.bookings.UpdateStatus(ctx, b.ID, booking.Status("archived"), provider, "provider", "test")
	assert.ErrorIs(t, err, booking.ErrUnknownStatus)

	// pending -> completed skips confirmation and is rejected.
	_, err = f.bookings.UpdateStatus(ctx, b.ID, booking.StatusCompleted, provider, "provider", "test")
	assert.ErrorIs(t, err, booking.ErrInvalidStatusTransition)
}

func TestListings_JoinIdentityWhenAvailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	provider := uuid.New()
	patient := uuid.New()

	f.directoryRep.Seed(nil, []*directory.Identity{
		{ID: patient, Name: "Ada Lovelace", Email: "ada@example.com"},
	})

	openSlots(t, f, provider, "2025-05-01", slot.Label0900, slot.Label1100)

	_, err := f.bookings.Book(ctx, &booking.CreateBookingCommand{
		ProviderID: provider,
		PatientID:  patient,
		Date:       "2025-05-01",
		TimeLabel:  slot.Label0900,
	}, "test")
	require.NoError(t, err)

	views, err := f.bookings.ListForProvider(ctx, provider)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Counterpart)
	assert.Equal(t, "Ada Lovelace", views[0].Counterpart.Name)
	assert.Equal(t, "ada@example.com", views[0].Counterpart.Email)

	// The provider has no identity record; the patient's listing comes
	// back unenriched rather than failing.
	views, err = f.bookings.ListForPatient(ctx, patient)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Counterpart)
}
