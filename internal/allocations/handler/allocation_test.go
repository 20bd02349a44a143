package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock allocation service for testing
type mockAllocationService struct {
	createFunc func(ctx context.Context, a *model.Allocation) error
	cancelFunc func(ctx context.Context, id string) (*model.Allocation, error)
}

func (m *mockAllocationService) Create(ctx context.Context, a *model.Allocation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	a.ID = "507f1f77bcf86cd799439031"
	a.Status = model.AllocationActive
	return nil
}

func (m *mockAllocationService) GetByID(ctx context.Context, id string) (*model.Allocation, error) {
	return nil, apperrors.NotFoundWithID("Allocation", id)
}

func (m *mockAllocationService) List(ctx context.Context, f model.AllocationFilter, limit int, offset int64) ([]*model.Allocation, int64, error) {
	return []*model.Allocation{}, 0, nil
}

func (m *mockAllocationService) Update(ctx context.Context, id string, u *model.AllocationUpdate) (*model.Allocation, error) {
	return nil, apperrors.NotFoundWithID("Allocation", id)
}

func (m *mockAllocationService) Cancel(ctx context.Context, id string) (*model.Allocation, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return &model.Allocation{ID: id, Status: model.AllocationCancelled}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
}

func TestCreate_InvalidBody(t *testing.T) {
	h := &AllocationHandler{service: &mockAllocationService{}, log: testLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCreate_MalformedDate(t *testing.T) {
	h := &AllocationHandler{service: &mockAllocationService{}, log: testLogger()}

	tests := []string{
		`{"vehicle_id":"507f1f77bcf86cd799439011","employee_id":"507f1f77bcf86cd799439021","allocation_date":"11-03-2026"}`,
		`{"vehicle_id":"507f1f77bcf86cd799439011","employee_id":"507f1f77bcf86cd799439021","allocation_date":"2026-03-11T00:00:00Z"}`,
	}

	for _, body := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(body))
		w := httptest.NewRecorder()

		h.Create(w, req, httprouter.Params{})

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}

		var resp struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Code != apperrors.CodeInvalidDate {
			t.Errorf("expected code %s, got %s", apperrors.CodeInvalidDate, resp.Code)
		}
	}
}

// A missing date must fail like any other missing required field, not
// as a malformed date.
func TestCreate_MissingDateIsValidationError(t *testing.T) {
	h := &AllocationHandler{
		service: &mockAllocationService{
			createFunc: func(ctx context.Context, a *model.Allocation) error {
				if !a.AllocationDate.IsZero() {
					t.Errorf("expected zero date to reach the engine, got %v", a.AllocationDate)
				}
				return apperrors.Validation("Allocation validation failed", map[string]any{"error": "allocation_date is required"})
			},
		},
		log: testLogger(),
	}

	tests := []string{
		`{"vehicle_id":"507f1f77bcf86cd799439011","employee_id":"507f1f77bcf86cd799439021","allocation_date":""}`,
		`{"vehicle_id":"507f1f77bcf86cd799439011","employee_id":"507f1f77bcf86cd799439021"}`,
	}

	for _, body := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(body))
		w := httptest.NewRecorder()

		h.Create(w, req, httprouter.Params{})

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %s: expected 422, got %d", body, w.Code)
		}

		var resp struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Code != apperrors.CodeValidation {
			t.Errorf("expected code %s, got %s", apperrors.CodeValidation, resp.Code)
		}
	}
}

func TestCreate_ConflictStatusCode(t *testing.T) {
	h := &AllocationHandler{
		service: &mockAllocationService{
			createFunc: func(ctx context.Context, a *model.Allocation) error {
				return apperrors.Conflict("Vehicle is already allocated on this date")
			},
		},
		log: testLogger(),
	}

	body := `{"vehicle_id":"507f1f77bcf86cd799439011","employee_id":"507f1f77bcf86cd799439021","allocation_date":"2026-03-11"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestCreate_Success(t *testing.T) {
	h := &AllocationHandler{service: &mockAllocationService{}, log: testLogger()}

	body := `{"vehicle_id":"507f1f77bcf86cd799439011","employee_id":"507f1f77bcf86cd799439021","allocation_date":"2026-03-11","purpose":"Client visit"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}

	var resp struct {
		Data model.Allocation `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID == "" || resp.Data.Status != model.AllocationActive {
		t.Errorf("unexpected payload: %+v", resp.Data)
	}
}

func TestCancel_ReturnsCancelledAllocation(t *testing.T) {
	h := &AllocationHandler{service: &mockAllocationService{}, log: testLogger()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations/id/507f1f77bcf86cd799439031/cancel", nil)
	w := httptest.NewRecorder()

	h.Cancel(w, req, httprouter.Params{{Key: "id", Value: "507f1f77bcf86cd799439031"}})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data model.Allocation `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Status != model.AllocationCancelled {
		t.Errorf("expected cancelled, got %q", resp.Data.Status)
	}
}

func TestCancel_NotFoundStatusCode(t *testing.T) {
	h := &AllocationHandler{
		service: &mockAllocationService{
			cancelFunc: func(ctx context.Context, id string) (*model.Allocation, error) {
				return nil, apperrors.NotFoundWithID("Allocation", id)
			},
		},
		log: testLogger(),
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations/id/507f1f77bcf86cd799439099/cancel", nil)
	w := httptest.NewRecorder()

	h.Cancel(w, req, httprouter.Params{{Key: "id", Value: "507f1f77bcf86cd799439099"}})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
