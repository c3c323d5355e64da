package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/medibook/internal/domain/availability"
	"github.com/medibook/medibook/internal/domain/slot"
	"github.com/medibook/medibook/internal/middleware"
	"github.com/medibook/medibook/internal/service"
)

type AvailabilityHandler struct {
	svc *service.AvailabilityService
}

func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

type addSlotsRequest struct {
	Date   string   `json:"date" binding:"required"`
	Labels []string `json:"labels" binding:"required"`
}

type entryResponse struct {
	ID     uuid.UUID        `json:"id"`
	Date   slot.Date        `json:"date"`
	Labels []slot.TimeLabel `json:"labels"`
}

func toEntryResponse(e *availability.Entry) entryResponse {
	return entryResponse{ID: e.ID, Date: e.Date, Labels: e.Labels}
}

// POST /providers/:providerID/availability
func (h *AvailabilityHandler) AddSlots(c *gin.Context) {
	providerID, ok := parseUUID(c, "providerID")
	if !ok {
		return
	}

	var req addSlotsRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := slot.ParseDate(req.Date)
	if err != nil {
		respondServiceError(c, availability.ErrInvalidDate)
		return
	}

	labels := make([]slot.TimeLabel, 0, len(req.Labels))
	for _, l := range req.Labels {
		labels = append(labels, slot.TimeLabel(l))
	}

	entry, err := h.svc.AddSlots(c.Request.Context(), &availability.AddSlotsCommand{
		ProviderID: providerID,
		Date:       date,
		Labels:     labels,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toEntryResponse(entry))
}

// GET /providers/:providerID/availability
func (h *AvailabilityHandler) ListByProvider(c *gin.Context) {
	providerID, ok := parseUUID(c, "providerID")
	if !ok {
		return
	}

	entries, err := h.svc.ListByProvider(c.Request.Context(), providerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	respondOK(c, out)
}

// DELETE /availability/:entryID
func (h *AvailabilityHandler) RemoveEntry(c *gin.Context) {
	entryID, ok := parseUUID(c, "entryID")
	if !ok {
		return
	}

	var callerID uuid.UUID
	if claims, ok := middleware.ClaimsFrom(c); ok {
		callerID = claims.UserID
	}

	if err := h.svc.RemoveEntry(c.Request.Context(), entryID, callerID, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"deleted": entryID})
}
