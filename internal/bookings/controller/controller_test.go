package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"equipbook/internal/bookings/events"
	"equipbook/internal/bookings/notify"
	"equipbook/internal/bookings/store"
	"equipbook/internal/bookings/validator"
	apperrors "equipbook/pkg/errors"
	"equipbook/pkg/logger"
	"equipbook/pkg/model"
)

type recordingAlerter struct {
	alerts []string
}

func (a *recordingAlerter) Alert(message string) {
	a.alerts = append(a.alerts, message)
}

func cancelledPrompt() SecretPrompt {
	return SecretPromptFunc(func(context.Context, model.Booking) (string, bool, error) {
		return "", false, nil
	})
}

func newTestController(st store.Store) (*Controller, *recordingAlerter, *notify.Center) {
	log := logger.NewTest()
	notices := notify.NewCenter(time.Minute)
	alerter := &recordingAlerter{}
	publisher := events.NewPublisher(nil, "test", log)
	c := New(st, validator.NewDraftValidator(log), notices, publisher, alerter, log)
	return c, alerter, notices
}

func seededBooking() model.Booking {
	return model.Booking{
		ID:          "b1",
		UserName:    "Bob",
		EquipmentID: "projector",
		Date:        "2025-06-01",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Password:    "secret",
	}
}

func TestSubmit_ValidDraft(t *testing.T) {
	st := store.NewMemoryStore()
	c, _, notices := newTestController(st)

	c.SetDraft(model.Draft{
		UserName:    "  Alice  ",
		EquipmentID: "projector",
		Date:        "2025-06-01",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Password:    "1234",
	})

	booking, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if booking.ID == "" {
		t.Error("expected the store to assign an ID")
	}
	if booking.UserName != "Alice" {
		t.Errorf("expected the user name to be trimmed, got %q", booking.UserName)
	}
	if booking.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}

	snapshot := st.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID != booking.ID {
		t.Errorf("expected the booking in the snapshot, got %v", snapshot)
	}

	draft := c.Draft()
	if draft.UserName != "" || draft.Password != "" || !draft.Errors.Empty() {
		t.Errorf("expected the draft to reset after submit, got %+v", draft)
	}
	if draft.StartTime != "09:00" || draft.EndTime != "10:00" {
		t.Errorf("expected default slot on the reset draft, got %+v", draft)
	}

	if n := notices.Current(); n == nil || n.Level != notify.Success {
		t.Errorf("expected a success notification, got %+v", n)
	}
}

func TestSubmit_ConflictingDraftDoesNotTouchStore(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(seededBooking())
	c, _, notices := newTestController(st)

	c.SetDraft(model.Draft{
		UserName:    "Alice",
		EquipmentID: "projector",
		Date:        "2025-06-01",
		StartTime:   "09:30",
		EndTime:     "10:30",
		Password:    "1234",
	})

	_, err := c.Submit(context.Background())
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}

	if len(st.Snapshot()) != 1 {
		t.Errorf("expected the store untouched, got %v", st.Snapshot())
	}

	draft := c.Draft()
	if _, ok := draft.Errors[model.FieldConflict]; !ok {
		t.Errorf("expected the conflict error stored on the draft, got %v", draft.Errors)
	}
	if draft.UserName != "Alice" {
		t.Errorf("expected the draft left intact for correction, got %+v", draft)
	}

	if n := notices.Current(); n != nil {
		t.Errorf("expected no notification on validation failure, got %+v", n)
	}
}

func TestSubmit_ConnectivityFailureKeepsDraft(t *testing.T) {
	st := store.NewMemoryStore()
	st.CreateErr = errors.New("connection refused")
	c, _, notices := newTestController(st)

	c.SetDraft(model.Draft{
		UserName:    "Alice",
		EquipmentID: "projector",
		Date:        "2025-06-01",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Password:    "1234",
	})

	_, err := c.Submit(context.Background())
	if !apperrors.IsCode(err, apperrors.CodeConnectivity) {
		t.Fatalf("expected a connectivity error, got %v", err)
	}

	if draft := c.Draft(); draft.UserName != "Alice" {
		t.Errorf("expected the draft kept for retry, got %+v", draft)
	}
	if n := notices.Current(); n == nil || n.Level != notify.Error {
		t.Errorf("expected an error notification, got %+v", n)
	}
}

func TestDelete_MatchingPassword(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(seededBooking())
	c, alerter, notices := newTestController(st)

	err := c.Delete(context.Background(), "b1", StaticSecret("secret"))
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if len(st.Snapshot()) != 0 {
		t.Errorf("expected the booking removed, got %v", st.Snapshot())
	}
	if n := notices.Current(); n == nil || n.Level != notify.Info {
		t.Errorf("expected an info notification, got %+v", n)
	}
	if len(alerter.alerts) != 0 {
		t.Errorf("expected no alert, got %v", alerter.alerts)
	}
	if c.DeletionState() != StateIdle {
		t.Errorf("expected the deletion flow back at idle, got %s", c.DeletionState())
	}
}

func TestDelete_WrongPassword(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(seededBooking())
	c, alerter, notices := newTestController(st)

	err := c.Delete(context.Background(), "b1", StaticSecret("wrong"))
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected an authorization error, got %v", err)
	}

	if len(st.Snapshot()) != 1 {
		t.Errorf("expected the collection unchanged, got %v", st.Snapshot())
	}
	if len(alerter.alerts) != 1 {
		t.Errorf("expected a blocking alert, got %v", alerter.alerts)
	}
	if n := notices.Current(); n != nil {
		t.Errorf("expected no transient notification for a wrong password, got %+v", n)
	}
}

func TestDelete_CancelledPrompt(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(seededBooking())
	c, alerter, notices := newTestController(st)

	err := c.Delete(context.Background(), "b1", cancelledPrompt())
	if err != nil {
		t.Fatalf("expected abandonment to be a silent no-op, got %v", err)
	}

	if len(st.Snapshot()) != 1 {
		t.Errorf("expected the collection unchanged, got %v", st.Snapshot())
	}
	if n := notices.Current(); n != nil {
		t.Errorf("expected no notification, got %+v", n)
	}
	if len(alerter.alerts) != 0 {
		t.Errorf("expected no alert, got %v", alerter.alerts)
	}
}

func TestDelete_AbsentBookingIsSilentNoOp(t *testing.T) {
	st := store.NewMemoryStore()
	c, _, notices := newTestController(st)

	prompted := false
	prompt := SecretPromptFunc(func(context.Context, model.Booking) (string, bool, error) {
		prompted = true
		return "anything", true, nil
	})

	if err := c.Delete(context.Background(), "gone", prompt); err != nil {
		t.Fatalf("expected silent no-op for an absent booking, got %v", err)
	}
	if prompted {
		t.Error("expected no prompt for an absent booking")
	}
	if n := notices.Current(); n != nil {
		t.Errorf("expected no notification, got %+v", n)
	}
}

func TestDelete_RemoveFailure(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(seededBooking())
	st.RemoveErr = errors.New("connection refused")
	c, _, notices := newTestController(st)

	err := c.Delete(context.Background(), "b1", StaticSecret("secret"))
	if !apperrors.IsCode(err, apperrors.CodeConnectivity) {
		t.Fatalf("expected a connectivity error, got %v", err)
	}
	if n := notices.Current(); n == nil || n.Level != notify.Error {
		t.Errorf("expected an error notification, got %+v", n)
	}
	if len(st.Snapshot()) != 1 {
		t.Errorf("expected the collection unchanged, got %v", st.Snapshot())
	}
}
