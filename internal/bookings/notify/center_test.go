package notify

import (
	"testing"
	"time"
)

func TestCenter_PublishAndCurrent(t *testing.T) {
	c := NewCenter(time.Minute)
	defer c.Stop()

	c.Publish(Success, "Booking created")

	got := c.Current()
	if got == nil {
		t.Fatal("expected a current notification")
	}
	if got.Level != Success || got.Message != "Booking created" {
		t.Errorf("got %+v", got)
	}
}

func TestCenter_NewerReplacesOlder(t *testing.T) {
	c := NewCenter(time.Minute)
	defer c.Stop()

	c.Publish(Success, "first")
	c.Publish(Error, "second")

	got := c.Current()
	if got == nil || got.Message != "second" || got.Level != Error {
		t.Errorf("expected the newer notification to replace the older, got %+v", got)
	}
}

func TestCenter_AutoDismiss(t *testing.T) {
	c := NewCenter(20 * time.Millisecond)
	defer c.Stop()

	c.Publish(Info, "transient")

	deadline := time.After(2 * time.Second)
	for c.Current() != nil {
		select {
		case <-deadline:
			t.Fatal("notification was not auto-dismissed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestCenter_ReplacementOutlivesOldTimer(t *testing.T) {
	c := NewCenter(100 * time.Millisecond)
	defer c.Stop()

	c.Publish(Info, "first")
	time.Sleep(60 * time.Millisecond)
	c.Publish(Info, "second")

	// The first notification's timer would fire about now; the second must
	// survive it.
	time.Sleep(60 * time.Millisecond)
	if got := c.Current(); got == nil || got.Message != "second" {
		t.Errorf("expected the replacement to survive the old timer, got %+v", got)
	}
}

func TestCenter_EmptyByDefault(t *testing.T) {
	c := NewCenter(time.Minute)
	defer c.Stop()

	if got := c.Current(); got != nil {
		t.Errorf("expected no notification initially, got %+v", got)
	}
}
