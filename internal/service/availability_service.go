package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medibook/medibook/internal/domain/availability"
	"github.com/medibook/medibook/internal/domain/slot"
	"github.com/medibook/medibook/pkg/metrics"
)

type AvailabilityService struct {
	repo     availability.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewAvailabilityService(
	repo availability.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{repo: repo, auditSvc: auditSvc, metrics: collector, log: log}
}

// AddSlots unions labels into the entry for (provider, date), creating it
// if absent. Idempotent: repeating the same labels yields the same entry.
func (s *AvailabilityService) AddSlots(ctx context.Context, cmd *availability.AddSlotsCommand, ip string) (*availability.Entry, error) {
	if cmd.ProviderID == uuid.Nil {
		return nil, &ValidationError{Fields: []string{"providerId is required"}}
	}
	if len(cmd.Labels) == 0 {
		return nil, availability.ErrNoLabels
	}
	for _, l := range cmd.Labels {
		if !l.IsValid() {
			return nil, fmt.Errorf("%w: %q", availability.ErrUnknownLabel, l)
		}
	}
	if !cmd.Date.IsValid() {
		return nil, availability.ErrInvalidDate
	}

	entry, err := s.repo.Merge(ctx, cmd.ProviderID, cmd.Date, cmd.Labels)
	if err != nil {
		s.log.Error("failed to merge availability", zap.Error(err))
		return nil, fmt.Errorf("%w: merging availability: %v", ErrStoreUnavailable, err)
	}

	s.metrics.AvailabilityMergesTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.ProviderID.String(),
		UserRole:     "provider",
		Action:       "update",
		ResourceType: "availability",
		ResourceID:   entry.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"date":%q,"labels":%d}`, cmd.Date, len(entry.Labels)),
	})

	return entry, nil
}

// RemoveEntry deletes the whole entry for a date. Existing bookings are
// deliberately untouched; removing availability never cancels appointments.
func (s *AvailabilityService) RemoveEntry(ctx context.Context, entryID uuid.UUID, callerID uuid.UUID, ip string) error {
	if entryID == uuid.Nil {
		return &ValidationError{Fields: []string{"entryId is required"}}
	}

	if err := s.repo.Delete(ctx, entryID); err != nil {
		if errors.Is(err, availability.ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("%w: deleting availability: %v", ErrStoreUnavailable, err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID.String(),
		UserRole:     "provider",
		Action:       "delete",
		ResourceType: "availability",
		ResourceID:   entryID.String(),
		IPAddress:    ip,
	})
	return nil
}

func (s *AvailabilityService) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*availability.Entry, error) {
	if providerID == uuid.Nil {
		return nil, &ValidationError{Fields: []string{"providerId is required"}}
	}
	entries, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing availability: %v", ErrStoreUnavailable, err)
	}
	return entries, nil
}

func (s *AvailabilityService) HasSlot(ctx context.Context, providerID uuid.UUID, date slot.Date, label slot.TimeLabel) (bool, error) {
	ok, err := s.repo.HasSlot(ctx, providerID, date, label)
	if err != nil {
		return false, fmt.Errorf("%w: checking slot: %v", ErrStoreUnavailable, err)
	}
	return ok, nil
}
