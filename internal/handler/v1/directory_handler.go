package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/medibook/medibook/internal/service"
)

type DirectoryHandler struct {
	svc *service.DirectoryService
}

func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

// GET /specializations
func (h *DirectoryHandler) ListSpecializations(c *gin.Context) {
	specs, err := h.svc.ListSpecializations(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, specs)
}

// GET /providers?specialization=
func (h *DirectoryHandler) ListProviders(c *gin.Context) {
	cards, err := h.svc.ListProviders(c.Request.Context(), c.Query("specialization"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, cards)
}
