package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/medibook/medibook/internal/domain"
	"github.com/medibook/medibook/internal/repository/memory"
	"github.com/medibook/medibook/pkg/metrics"
)

// One collector per test binary; promauto registers globally.
var testCollector = metrics.NewCollector("medibook_test")

type noopAuditRepo struct{}

func (noopAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error { return nil }

type fixture struct {
	availability *AvailabilityService
	bookings     *BookingService
	directory    *DirectoryService
	directoryRep *memory.DirectoryRepository
}

func newFixture() *fixture {
	log := zap.NewNop()
	auditSvc := NewAuditService(noopAuditRepo{}, log)

	availabilityRepo := memory.NewAvailabilityRepository()
	bookingRepo := memory.NewBookingRepository()
	directoryRepo := memory.NewDirectoryRepository()

	directorySvc := NewDirectoryService(directoryRepo)

	return &fixture{
		availability: NewAvailabilityService(availabilityRepo, auditSvc, testCollector, log),
		bookings:     NewBookingService(bookingRepo, availabilityRepo, directorySvc, auditSvc, testCollector, log),
		directory:    directorySvc,
		directoryRep: directoryRepo,
	}
}
