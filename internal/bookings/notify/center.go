// Package notify holds transient user notifications. The newest notification
// replaces the current one and auto-dismisses after a fixed duration.
package notify

import (
	"sync"
	"time"
)

type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Info    Level = "info"
)

type Notification struct {
	Message string    `json:"message"`
	Level   Level     `json:"level"`
	At      time.Time `json:"at"`
}

type Center struct {
	mu      sync.Mutex
	current *Notification
	timer   *time.Timer
	ttl     time.Duration
	seq     uint64
}

func NewCenter(ttl time.Duration) *Center {
	return &Center{ttl: ttl}
}

// Publish replaces the current notification and restarts the dismiss timer.
func (c *Center) Publish(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	seq := c.seq
	c.current = &Notification{
		Message: message,
		Level:   level,
		At:      time.Now(),
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ttl, func() {
		c.dismiss(seq)
	})
}

// dismiss clears the notification only if it is still the one the timer was
// armed for; a newer publication wins.
func (c *Center) dismiss(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq == seq {
		c.current = nil
	}
}

// Current returns the visible notification, or nil after dismissal.
func (c *Center) Current() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	copied := *c.current
	return &copied
}

// Stop cancels any pending dismiss timer.
func (c *Center) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
