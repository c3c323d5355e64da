package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/medibook/medibook/internal/config"
	v1 "github.com/medibook/medibook/internal/handler/v1"
	"github.com/medibook/medibook/internal/repository/postgres"
	"github.com/medibook/medibook/internal/service"
	"github.com/medibook/medibook/pkg/auth"
	"github.com/medibook/medibook/pkg/database"
	"github.com/medibook/medibook/pkg/logger"
	"github.com/medibook/medibook/pkg/metrics"
	"github.com/medibook/medibook/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			zlog.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("migrating database", zap.Error(err))
	}

	collector := metrics.NewCollector("medibook")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	// Stores are constructed once here and injected; nothing in the core
	// reaches for process-wide state.
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	directoryRepo := postgres.NewDirectoryRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, zlog)
	defer auditSvc.Shutdown()

	directorySvc := service.NewDirectoryService(directoryRepo)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, auditSvc, collector, zlog)
	bookingSvc := service.NewBookingService(bookingRepo, availabilityRepo, directorySvc, auditSvc, collector, zlog)

	router := v1.NewRouter(cfg, v1.RouterDeps{
		Availability: availabilitySvc,
		Bookings:     bookingSvc,
		Directory:    directorySvc,
		JWTManager:   jwtManager,
		Metrics:      collector,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server listening",
			zap.String("addr", cfg.Server.Address()),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
