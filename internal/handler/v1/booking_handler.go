package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/booking"
	"github.com/medibook/medibook/internal/domain/slot"
	"github.com/medibook/medibook/internal/middleware"
	"github.com/medibook/medibook/internal/service"
)

type BookingHandler struct {
	svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type bookRequest struct {
	ProviderID string `json:"providerId" binding:"required"`
	PatientID  string `json:"patientId" binding:"required"`
	Date       string `json:"date" binding:"required"`
	TimeLabel  string `json:"timeLabel" binding:"required"`
}

// POST /bookings
func (h *BookingHandler) Book(c *gin.Context) {
	var req bookRequest
	if !bindJSON(c, &req) {
		return
	}

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		respondServiceError(c, &service.ValidationError{Fields: []string{"providerId must be a valid UUID"}})
		return
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		respondServiceError(c, &service.ValidationError{Fields: []string{"patientId must be a valid UUID"}})
		return
	}

	b, err := h.svc.Book(c.Request.Context(), &booking.CreateBookingCommand{
		ProviderID: providerID,
		PatientID:  patientID,
		Date:       slot.Date(req.Date),
		TimeLabel:  slot.TimeLabel(req.TimeLabel),
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, b)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /bookings/:bookingID/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, ok := parseUUID(c, "bookingID")
	if !ok {
		return
	}

	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	var callerID uuid.UUID
	callerRole := ""
	if claims, ok := middleware.ClaimsFrom(c); ok {
		callerID = claims.UserID
		callerRole = string(claims.Role)
	}

	b, err := h.svc.UpdateStatus(c.Request.Context(), bookingID, booking.Status(req.Status), callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, b)
}

// GET /providers/:providerID/bookings
func (h *BookingHandler) ListForProvider(c *gin.Context) {
	providerID, ok := parseUUID(c, "providerID")
	if !ok {
		return
	}

	views, err := h.svc.ListForProvider(c.Request.Context(), providerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, views)
}

// GET /patients/:patientID/bookings
func (h *BookingHandler) ListForPatient(c *gin.Context) {
	patientID, ok := parseUUID(c, "patientID")
	if !ok {
		return
	}

	views, err := h.svc.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, views)
}
