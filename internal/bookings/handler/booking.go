// Package handler exposes the booking application over HTTP: the REST
// surface, the live snapshot stream, and health endpoints.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"equipbook/internal/bookings/controller"
	"equipbook/internal/bookings/projector"
	"equipbook/internal/bookings/store"
	apperrors "equipbook/pkg/errors"
	httputil "equipbook/pkg/http"
	"equipbook/pkg/logger"
	"equipbook/pkg/model"
	"equipbook/pkg/timegrid"
)

// passwordHeader carries the deletion secret on DELETE requests. The secret
// is compared, never stored, on this path.
const passwordHeader = "X-Booking-Password"

type BookingHandler struct {
	controller *controller.Controller
	store      store.Store
	log        *logger.Logger
}

func NewBookingHandler(c *controller.Controller, st store.Store, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		controller: c,
		store:      st,
		log:        log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	h.controller.SetDraft(draft)

	booking, err := h.controller.Submit(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, redact(booking)); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, redactAll(h.store.Snapshot())); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	secret := r.Header.Get(passwordHeader)
	if secret == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(
			fmt.Sprintf("missing %s header", passwordHeader),
		)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.controller.Delete(r.Context(), id, controller.StaticSecret(secret)); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// ScheduleResponse is the per-equipment, per-date view: the matching
// bookings plus presentation data for the schedule header.
type ScheduleResponse struct {
	Equipment   model.Equipment `json:"equipment"`
	Date        string          `json:"date"`
	DisplayDate string          `json:"display_date"`
	Bookings    []model.Booking `json:"bookings"`
}

func (h *BookingHandler) Schedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	equipmentID := query.Get("equipment_id")
	date := query.Get("date")

	if equipmentID == "" || date == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Both 'equipment_id' and 'date' query parameters are required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Schedule", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	equipment, ok := model.EquipmentByID(equipmentID)
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.NotFoundWithID("equipment", equipmentID)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Schedule", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	schedule := projector.ScheduleFor(equipmentID, date, h.store.Snapshot())

	if err := httputil.WriteSuccess(w, ScheduleResponse{
		Equipment:   equipment,
		Date:        date,
		DisplayDate: timegrid.DisplayDate(date),
		Bookings:    redactAll(schedule),
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Schedule", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Equipment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, model.Catalog()); err != nil {
		h.log.Error("failed to write success response", "handler", "Equipment", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) TimeSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, timegrid.Options()); err != nil {
		h.log.Error("failed to write success response", "handler", "TimeSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetDraft(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.controller.Draft()); err != nil {
		h.log.Error("failed to write success response", "handler", "GetDraft", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) PutDraft(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "PutDraft", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	h.controller.SetDraft(draft)
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Notification(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.controller.Notifications().Current()); err != nil {
		h.log.Error("failed to write success response", "handler", "Notification", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.GET("/api/v1/schedule", h.Schedule)
	router.GET("/api/v1/equipment", h.Equipment)
	router.GET("/api/v1/timeslots", h.TimeSlots)
	router.GET("/api/v1/draft", h.GetDraft)
	router.PUT("/api/v1/draft", h.PutDraft)
	router.GET("/api/v1/notification", h.Notification)
}

// redact strips the deletion secret before a booking leaves the service.
func redact(b model.Booking) model.Booking {
	b.Password = ""
	return b
}

func redactAll(bookings []model.Booking) []model.Booking {
	out := make([]model.Booking, len(bookings))
	for i, b := range bookings {
		out[i] = redact(b)
	}
	return out
}
