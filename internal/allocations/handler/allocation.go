package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"fleetalloc/internal/allocations/service"
	"fleetalloc/internal/allocations/validator"
	apperrors "fleetalloc/pkg/errors"
	httputil "fleetalloc/pkg/http"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AllocationHandler struct {
	service      service.AllocationService
	availability service.AvailabilityService
	stats        service.StatsService
	log          *logger.Logger
}

func NewAllocationHandler(
	allocationService service.AllocationService,
	availabilityService service.AvailabilityService,
	statsService service.StatsService,
	log *logger.Logger,
) *AllocationHandler {
	return &AllocationHandler{
		service:      allocationService,
		availability: availabilityService,
		stats:        statsService,
		log:          log,
	}
}

// allocationRequest is the create payload. The date travels as a
// string so malformed dates fail before touching time parsing in the
// model layer.
type allocationRequest struct {
	VehicleID      string `json:"vehicle_id"`
	EmployeeID     string `json:"employee_id"`
	AllocationDate string `json:"allocation_date"`
	Purpose        string `json:"purpose"`
}

func (h *AllocationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// A missing date is a required-field failure like a missing
	// vehicle_id; only a present but unparseable one is a date error.
	var date time.Time
	if req.AllocationDate != "" {
		var err error
		date, err = validator.ParseDate(req.AllocationDate)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidDate("allocation_date must be in YYYY-MM-DD format")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	allocation := model.Allocation{
		VehicleID:      req.VehicleID,
		EmployeeID:     req.EmployeeID,
		AllocationDate: date,
		Purpose:        req.Purpose,
	}

	if err := h.service.Create(r.Context(), &allocation); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, allocation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AllocationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	allocation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, allocation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	filter, err := buildFilter(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	allocations, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, allocations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *AllocationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.AllocationUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	allocation, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, allocation); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	allocation, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, allocation); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")

	availability, err := h.availability.GetAvailability(r.Context(), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	report, err := h.stats.GetReport(r.Context(), query.Get("from"), query.Get("to"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Stats", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Stats", "operation", "WriteSuccess", "error", err)
	}
}

func buildFilter(r *http.Request) (model.AllocationFilter, error) {
	query := r.URL.Query()

	filter := model.AllocationFilter{
		VehicleID:  query.Get("vehicle_id"),
		EmployeeID: query.Get("employee_id"),
		Status:     model.AllocationStatus(query.Get("status")),
	}

	if s := query.Get("from"); s != "" {
		day, err := validator.ParseDate(s)
		if err != nil {
			return filter, apperrors.InvalidDate("from must be in YYYY-MM-DD format")
		}
		filter.From = &day
	}
	if s := query.Get("to"); s != "" {
		day, err := validator.ParseDate(s)
		if err != nil {
			return filter, apperrors.InvalidDate("to must be in YYYY-MM-DD format")
		}
		filter.To = &day
	}

	return filter, nil
}

func (h *AllocationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/allocations", h.Create)
	router.GET("/api/v1/allocations", h.List)
	router.GET("/api/v1/allocations/id/:id", h.GetByID)
	router.PATCH("/api/v1/allocations/id/:id", h.Update)
	router.POST("/api/v1/allocations/id/:id/cancel", h.Cancel)
	router.GET("/api/v1/allocations/stats", h.Stats)
	router.GET("/api/v1/vehicles/availability/:date", h.Availability)
}
