// Package controller owns the booking form draft and orchestrates the
// submit and delete flows across validator, store, and notifications.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "equipbook/internal/bookings/errors"
	"equipbook/internal/bookings/events"
	"equipbook/internal/bookings/notify"
	"equipbook/internal/bookings/store"
	"equipbook/internal/bookings/validator"
	apperrors "equipbook/pkg/errors"
	"equipbook/pkg/logger"
	"equipbook/pkg/model"
)

// SecretPrompt asks the user for a deletion password. answered is false when
// the user cancelled the prompt, which is abandonment, not failure.
type SecretPrompt interface {
	RequestSecret(ctx context.Context, booking model.Booking) (secret string, answered bool, err error)
}

type SecretPromptFunc func(ctx context.Context, booking model.Booking) (string, bool, error)

func (f SecretPromptFunc) RequestSecret(ctx context.Context, booking model.Booking) (string, bool, error) {
	return f(ctx, booking)
}

// StaticSecret answers every prompt with a fixed value, e.g. a password
// carried on an HTTP request.
func StaticSecret(secret string) SecretPrompt {
	return SecretPromptFunc(func(context.Context, model.Booking) (string, bool, error) {
		return secret, true, nil
	})
}

// Alerter surfaces blocking alerts that force acknowledgment, as opposed to
// transient notifications.
type Alerter interface {
	Alert(message string)
}

// DeleteState tracks where the deletion flow currently is.
type DeleteState string

const (
	StateIdle           DeleteState = "idle"
	StateAwaitingSecret DeleteState = "awaiting_secret"
	StateComparing      DeleteState = "comparing"
	StateRemoving       DeleteState = "removing"
)

type Controller struct {
	mu          sync.Mutex
	draft       model.Draft
	deleteState DeleteState

	store     store.Store
	validator *validator.DraftValidator
	notices   *notify.Center
	events    *events.Publisher
	alerter   Alerter
	log       *logger.Logger
	now       func() time.Time
}

func New(
	st store.Store,
	v *validator.DraftValidator,
	notices *notify.Center,
	publisher *events.Publisher,
	alerter Alerter,
	log *logger.Logger,
) *Controller {
	c := &Controller{
		store:       st,
		validator:   v,
		notices:     notices,
		events:      publisher,
		alerter:     alerter,
		log:         log,
		now:         time.Now,
		deleteState: StateIdle,
	}
	c.draft = model.NewDraft(c.now())
	return c
}

// Draft returns the current form state, including any errors from the last
// failed submit.
func (c *Controller) Draft() model.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the user-editable fields. Previous field errors are
// cleared; they will be recomputed on the next submit.
func (c *Controller) SetDraft(draft model.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	draft.Errors = nil
	c.draft = draft
}

// DeletionState reports the deletion flow state for observation.
func (c *Controller) DeletionState() DeleteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteState
}

func (c *Controller) setDeleteState(state DeleteState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteState = state
}

// Submit validates the draft against the current snapshot and creates the
// booking. Field errors stop the flow before any store call and stay on the
// draft for display; a store failure keeps the draft intact for retry.
func (c *Controller) Submit(ctx context.Context) (model.Booking, error) {
	c.mu.Lock()
	draft := c.draft
	c.mu.Unlock()

	fieldErrors := c.validator.Validate(draft, c.store.Snapshot())
	if !fieldErrors.Empty() {
		c.mu.Lock()
		c.draft.Errors = fieldErrors
		c.mu.Unlock()
		c.log.Warn("Booking draft rejected", "errors", fieldErrors)
		return model.Booking{}, apperrors.Validation("Booking validation failed", fieldErrors.Details())
	}

	booking := draft.Booking(c.now())
	if err := c.store.Create(ctx, &booking); err != nil {
		c.log.Error("Failed to create booking", "error", err)
		c.notices.Publish(notify.Error, "Connection error, please retry")
		return model.Booking{}, apperrors.Connectivity("Failed to create booking", err)
	}

	c.mu.Lock()
	c.draft = model.NewDraft(c.now())
	c.mu.Unlock()

	c.notices.Publish(notify.Success, "Booking created")
	c.events.BookingCreated(ctx, booking)
	c.log.Info("Booking created",
		"id", booking.ID,
		"equipment_id", booking.EquipmentID,
		"date", booking.Date,
		"start_time", booking.StartTime,
	)
	return booking, nil
}

// Delete runs the password-gated deletion flow for one booking.
//
// A booking missing from the snapshot was already deleted by someone else
// and is treated as a silent success. A cancelled prompt is abandonment: no
// mutation, no notification. A wrong password raises a blocking alert and
// never reaches the store.
func (c *Controller) Delete(ctx context.Context, id string, prompt SecretPrompt) error {
	booking, found := findByID(c.store.Snapshot(), id)
	if !found {
		c.log.Debug("Delete requested for a booking no longer present", "id", id)
		return nil
	}

	defer c.setDeleteState(StateIdle)

	c.setDeleteState(StateAwaitingSecret)
	secret, answered, err := prompt.RequestSecret(ctx, booking)
	if err != nil {
		return apperrors.Internal("Secret prompt failed", err)
	}
	if !answered {
		return nil
	}

	c.setDeleteState(StateComparing)
	if secret != booking.Password {
		if c.alerter != nil {
			c.alerter.Alert("Wrong password!")
		}
		return apperrors.WrongPassword()
	}

	c.setDeleteState(StateRemoving)
	if err := c.store.Remove(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			// Lost a race with another deleter; same outcome.
			c.notices.Publish(notify.Info, "Booking deleted, sync in progress")
			return nil
		}
		c.log.Error("Failed to remove booking", "id", id, "error", err)
		c.notices.Publish(notify.Error, "Failed to delete booking")
		return apperrors.Connectivity("Failed to remove booking", err)
	}

	c.notices.Publish(notify.Info, "Booking deleted, sync in progress")
	c.events.BookingDeleted(ctx, id)
	c.log.Info("Booking deleted", "id", id)
	return nil
}

// Notifications exposes the transient notification center.
func (c *Controller) Notifications() *notify.Center {
	return c.notices
}

func findByID(snapshot []model.Booking, id string) (model.Booking, bool) {
	for _, b := range snapshot {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}
