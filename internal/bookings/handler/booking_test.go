package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"equipbook/internal/bookings/controller"
	"equipbook/internal/bookings/events"
	"equipbook/internal/bookings/notify"
	"equipbook/internal/bookings/store"
	"equipbook/internal/bookings/validator"
	"equipbook/pkg/logger"
	"equipbook/pkg/model"
)

type noopAlerter struct{}

func (noopAlerter) Alert(string) {}

func newTestRouter(st *store.MemoryStore) *httprouter.Router {
	log := logger.NewTest()
	c := controller.New(
		st,
		validator.NewDraftValidator(log),
		notify.NewCenter(time.Minute),
		events.NewPublisher(nil, "test", log),
		noopAlerter{},
		log,
	)

	router := httprouter.New()
	NewBookingHandler(c, st, log).RegisterRoutes(router)
	return router
}

func seedBooking(st *store.MemoryStore) model.Booking {
	b := model.Booking{
		ID:          "b1",
		UserName:    "Bob",
		EquipmentID: "projector",
		Date:        "2025-06-01",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Password:    "secret",
	}
	st.Seed(b)
	return b
}

func TestCreate_Valid(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	body := `{
		"user_name": "Alice",
		"equipment_id": "projector",
		"date": "2025-06-01",
		"start_time": "09:00",
		"end_time": "10:00",
		"password": "1234"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID == "" {
		t.Error("expected an assigned ID in the response")
	}
	if resp.Data.Password != "" {
		t.Error("expected the password stripped from the response")
	}
	if len(st.Snapshot()) != 1 {
		t.Errorf("expected the booking persisted, got %v", st.Snapshot())
	}
}

func TestCreate_Conflict(t *testing.T) {
	st := store.NewMemoryStore()
	seedBooking(st)
	router := newTestRouter(st)

	body := `{
		"user_name": "Alice",
		"equipment_id": "projector",
		"date": "2025-06-01",
		"start_time": "09:30",
		"end_time": "10:30",
		"password": "1234"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := resp.Details[model.FieldConflict]; !ok {
		t.Errorf("expected a conflict detail, got %v", resp.Details)
	}
	if len(st.Snapshot()) != 1 {
		t.Errorf("expected the store untouched, got %v", st.Snapshot())
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetAll_RedactsPasswords(t *testing.T) {
	st := store.NewMemoryStore()
	seedBooking(st)
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Errorf("expected the password redacted, got %s", w.Body.String())
	}
}

func TestDelete_Flow(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		password   string
		expectCode int
		expectLeft int
	}{
		{
			name:       "matching password removes the booking",
			id:         "b1",
			password:   "secret",
			expectCode: http.StatusNoContent,
			expectLeft: 0,
		},
		{
			name:       "wrong password is rejected",
			id:         "b1",
			password:   "nope",
			expectCode: http.StatusForbidden,
			expectLeft: 1,
		},
		{
			name:       "missing password header",
			id:         "b1",
			password:   "",
			expectCode: http.StatusBadRequest,
			expectLeft: 1,
		},
		{
			name:       "absent booking is a silent no-op",
			id:         "gone",
			password:   "anything",
			expectCode: http.StatusNoContent,
			expectLeft: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			seedBooking(st)
			router := newTestRouter(st)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/id/"+tt.id, nil)
			if tt.password != "" {
				req.Header.Set(passwordHeader, tt.password)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Errorf("expected status %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
			if len(st.Snapshot()) != tt.expectLeft {
				t.Errorf("expected %d bookings left, got %v", tt.expectLeft, st.Snapshot())
			}
		})
	}
}

func TestSchedule(t *testing.T) {
	st := store.NewMemoryStore()
	seedBooking(st)
	st.Seed(model.Booking{
		ID:          "b2",
		UserName:    "Carol",
		EquipmentID: "mobile-screen",
		Date:        "2025-06-01",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Password:    "x",
	})
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule?equipment_id=projector&date=2025-06-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data ScheduleResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.Bookings) != 1 || resp.Data.Bookings[0].ID != "b1" {
		t.Errorf("expected only the projector booking, got %v", resp.Data.Bookings)
	}
	if resp.Data.DisplayDate != "Sunday, June 1, 2025" {
		t.Errorf("unexpected display date %q", resp.Data.DisplayDate)
	}
	if resp.Data.Equipment.Name != "Projector" {
		t.Errorf("unexpected equipment %+v", resp.Data.Equipment)
	}
}

func TestSchedule_UnknownEquipment(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule?equipment_id=forklift&date=2025-06-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSchedule_MissingParameters(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule?date=2025-06-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEquipmentAndTimeSlots(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/equipment", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("equipment: expected 200, got %d", w.Code)
	}

	var eqResp struct {
		Data []model.Equipment `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &eqResp); err != nil {
		t.Fatalf("failed to decode equipment response: %v", err)
	}
	if len(eqResp.Data) != 2 {
		t.Errorf("expected the two catalog entries, got %v", eqResp.Data)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/timeslots", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("timeslots: expected 200, got %d", w.Code)
	}

	var slotResp struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &slotResp); err != nil {
		t.Fatalf("failed to decode timeslots response: %v", err)
	}
	if len(slotResp.Data) != 27 {
		t.Errorf("expected 27 grid times, got %d", len(slotResp.Data))
	}
}

func TestDraftRoundTrip(t *testing.T) {
	st := store.NewMemoryStore()
	router := newTestRouter(st)

	body := `{
		"user_name": "Alice",
		"equipment_id": "projector",
		"date": "2025-06-01",
		"start_time": "11:00",
		"end_time": "12:00",
		"password": "1234"
	}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/draft", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("put draft: expected 204, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/draft", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get draft: expected 200, got %d", w.Code)
	}

	var resp struct {
		Data model.Draft `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode draft response: %v", err)
	}
	if resp.Data.UserName != "Alice" || resp.Data.StartTime != "11:00" {
		t.Errorf("unexpected draft %+v", resp.Data)
	}
}
