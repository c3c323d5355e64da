package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medibook/medibook/internal/domain/availability"
	"github.com/medibook/medibook/internal/domain/booking"
	"github.com/medibook/medibook/pkg/metrics"
)

// IdentityInfo is the minimal human-readable identity joined into booking
// listings. The coordinator stores only IDs, never denormalized personal
// data.
type IdentityInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProviderInfo is read-time directory enrichment for a provider.
type ProviderInfo struct {
	Specialization  string `json:"specialization"`
	Region          string `json:"region"`
	ExperienceYears int    `json:"experienceYears"`
}

// IdentityResolver and ProviderResolver are external collaborators. Lookup
// failures never fail a listing; the row is returned unenriched.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID uuid.UUID) (*IdentityInfo, error)
}

type ProviderResolver interface {
	ResolveProvider(ctx context.Context, providerID uuid.UUID) (*ProviderInfo, error)
}

// BookingView is a booking joined with counterpart identity for listings.
type BookingView struct {
	booking.Booking
	Counterpart *IdentityInfo `json:"counterpart,omitempty"`
}

// BookingService coordinates the availability store and the booking ledger.
// It is the sole writer of bookings.
type BookingService struct {
	ledger       booking.Repository
	availability availability.Repository
	identities   IdentityResolver
	auditSvc     *AuditService
	metrics      *metrics.Collector
	log          *zap.Logger
}

func NewBookingService(
	ledger booking.Repository,
	availabilityRepo availability.Repository,
	identities IdentityResolver,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		ledger:       ledger,
		availability: availabilityRepo,
		identities:   identities,
		auditSvc:     auditSvc,
		metrics:      collector,
		log:          log,
	}
}

// Book validates the request against the availability store, then attempts
// the exclusive commit into the ledger. Under concurrent calls for the same
// slot key exactly one succeeds; the rest observe ErrSlotTaken. No partial
// state is left on any failure path.
func (s *BookingService) Book(ctx context.Context, cmd *booking.CreateBookingCommand, ip string) (*booking.Booking, error) {
	if cmd.ProviderID == uuid.Nil || cmd.PatientID == uuid.Nil || cmd.Date == "" || cmd.TimeLabel == "" {
		return nil, booking.ErrMissingField
	}
	if !cmd.TimeLabel.IsValid() {
		return nil, fmt.Errorf("%w: %q", availability.ErrUnknownLabel, cmd.TimeLabel)
	}
	if !cmd.Date.IsValid() {
		return nil, availability.ErrInvalidDate
	}

	open, err := s.availability.HasSlot(ctx, cmd.ProviderID, cmd.Date, cmd.TimeLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: checking availability: %v", ErrStoreUnavailable, err)
	}
	if !open {
		return nil, booking.ErrSlotNotOpen
	}

	b := &booking.Booking{
		ProviderID: cmd.ProviderID,
		PatientID:  cmd.PatientID,
		Date:       cmd.Date,
		TimeLabel:  cmd.TimeLabel,
		Status:     booking.StatusPending,
	}

	if err := s.ledger.CreateExclusive(ctx, b); err != nil {
		if errors.Is(err, booking.ErrSlotTaken) {
			s.metrics.SlotConflictsTotal.Inc()
			return nil, err
		}
		s.log.Error("failed to create booking", zap.Error(err))
		return nil, fmt.Errorf("%w: creating booking: %v", ErrStoreUnavailable, err)
	}

	s.metrics.BookingsTotal.WithLabelValues(string(booking.StatusPending)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.PatientID.String(),
		UserRole:     "patient",
		Action:       "create",
		ResourceType: "booking",
		ResourceID:   b.ID.String(),
		IPAddress:    ip,
	})

	return b, nil
}

// UpdateStatus applies one lifecycle transition. Legality is checked by the
// pure status machine, then committed as a compare-and-set so two racing
// updates cannot both succeed from the same prior state.
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, requested booking.Status, callerID uuid.UUID, callerRole string, ip string) (*booking.Booking, error) {
	if !requested.IsValid() {
		return nil, fmt.Errorf("%w: %q", booking.ErrUnknownStatus, requested)
	}

	current, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.CanTransition(current.Status, requested) {
		return nil, fmt.Errorf("%w: %s -> %s", booking.ErrInvalidStatusTransition, current.Status, requested)
	}

	updated, err := s.ledger.UpdateStatus(ctx, id, current.Status, requested)
	if err != nil {
		return nil, err
	}

	s.metrics.BookingsTotal.WithLabelValues(string(requested)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID.String(),
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "booking",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"status":%q}`, requested),
	})

	return updated, nil
}

// ListForProvider returns the provider's bookings, each joined with the
// patient's name and email.
func (s *BookingService) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*BookingView, error) {
	if providerID == uuid.Nil {
		return nil, &ValidationError{Fields: []string{"providerId is required"}}
	}
	bookings, err := s.ledger.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing bookings: %v", ErrStoreUnavailable, err)
	}
	return s.enrich(ctx, bookings, func(b *booking.Booking) uuid.UUID { return b.PatientID }), nil
}

// ListForPatient returns the patient's bookings, each joined with the
// provider's name and email.
func (s *BookingService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*BookingView, error) {
	if patientID == uuid.Nil {
		return nil, &ValidationError{Fields: []string{"patientId is required"}}
	}
	bookings, err := s.ledger.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing bookings: %v", ErrStoreUnavailable, err)
	}
	return s.enrich(ctx, bookings, func(b *booking.Booking) uuid.UUID { return b.ProviderID }), nil
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return s.ledger.GetByID(ctx, id)
}

// enrich joins each booking with its counterpart identity. A failed lookup
// leaves the row unenriched; missing enrichment is not a core error.
func (s *BookingService) enrich(ctx context.Context, bookings []*booking.Booking, counterpart func(*booking.Booking) uuid.UUID) []*BookingView {
	views := make([]*BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := &BookingView{Booking: *b}
		if info, err := s.identities.ResolveIdentity(ctx, counterpart(b)); err == nil {
			view.Counterpart = info
		}
		views = append(views, view)
	}
	return views
}
