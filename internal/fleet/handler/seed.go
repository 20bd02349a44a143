package handler

import (
	"net/http"

	"fleetalloc/internal/fleet/service"
	httputil "fleetalloc/pkg/http"
	"fleetalloc/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type SeedHandler struct {
	service service.SeedService
	log     *logger.Logger
}

func NewSeedHandler(service service.SeedService, log *logger.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		log:     log,
	}
}

func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, err := h.service.Seed(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Seed", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, summary); err != nil {
		h.log.Error("failed to write created response", "handler", "Seed", "operation", "WriteCreated", "error", err)
	}
}

func (h *SeedHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/seed", h.Seed)
}
