package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/medibook/medibook/internal/config"
	"github.com/medibook/medibook/internal/domain"
	"github.com/medibook/medibook/internal/middleware"
	"github.com/medibook/medibook/internal/service"
	"github.com/medibook/medibook/pkg/auth"
	"github.com/medibook/medibook/pkg/metrics"
)

type RouterDeps struct {
	Availability *service.AvailabilityService
	Bookings     *service.BookingService
	Directory    *service.DirectoryService
	JWTManager   *auth.JWTManager
	Metrics      *metrics.Collector
}

func NewRouter(cfg *config.Config, deps RouterDeps) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Instrument(deps.Metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		MaxAge:           cfg.CORS.MaxAge,
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	availabilityH := NewAvailabilityHandler(deps.Availability)
	bookingH := NewBookingHandler(deps.Bookings)
	directoryH := NewDirectoryHandler(deps.Directory)

	api := r.Group("/api/v1")

	// Directory reads and availability listing are public; everything that
	// mutates state sits behind the token check with a role gate.
	api.GET("/specializations", directoryH.ListSpecializations)
	api.GET("/providers", directoryH.ListProviders)
	api.GET("/providers/:providerID/availability", availabilityH.ListByProvider)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(deps.JWTManager))
	{
		provider := authed.Group("")
		provider.Use(middleware.RequireRole(domain.RoleProvider))
		{
			provider.POST("/providers/:providerID/availability", availabilityH.AddSlots)
			provider.DELETE("/availability/:entryID", availabilityH.RemoveEntry)
			provider.GET("/providers/:providerID/bookings", bookingH.ListForProvider)
		}

		patient := authed.Group("")
		patient.Use(middleware.RequireRole(domain.RolePatient))
		{
			patient.POST("/bookings", bookingH.Book)
			patient.GET("/patients/:patientID/bookings", bookingH.ListForPatient)
		}

		// Either party may drive the lifecycle; the status machine decides
		// which transitions are legal.
		authed.PUT("/bookings/:bookingID/status", bookingH.UpdateStatus)
	}

	return r
}
