// Package hud keeps the floating classroom controls visible for a short
// window after activity, then hides them. The machine has two states,
// VISIBLE and HIDDEN: any activity event transitions to VISIBLE and re-arms
// the countdown; the timed VISIBLE→HIDDEN transition is guarded by "no
// panel open".
package hud

import (
	"sync"
	"time"
)

// DefaultHideDelay matches the classroom UI's four-second window.
const DefaultHideDelay = 4 * time.Second

// Controller owns a single hide timer, cleared and re-armed atomically on
// every activity event so two countdowns can never race.
type Controller struct {
	mu      sync.Mutex
	delay   time.Duration
	visible bool
	panels  int
	timer   *time.Timer
}

// NewController returns a controller in the VISIBLE state. The countdown
// arms on the first activity event, not on creation.
func NewController(delay time.Duration) *Controller {
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	return &Controller{delay: delay, visible: true}
}

// Activity records pointer movement, touch, or a control interaction: the
// controls become visible and the countdown restarts. While a panel is
// open no countdown is armed.
func (c *Controller) Activity() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.visible = true
	c.stopTimerLocked()
	if c.panels == 0 {
		c.timer = time.AfterFunc(c.delay, c.hide)
	}
}

// OpenPanel suppresses auto-hide while a secondary panel (such as the
// visual tuning drawer) is open. Controls must not disappear under an open
// panel.
func (c *Controller) OpenPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.panels++
	c.visible = true
	c.stopTimerLocked()
}

// ClosePanel releases the suppression; when the last panel closes the
// countdown re-arms.
func (c *Controller) ClosePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.panels > 0 {
		c.panels--
	}
	if c.panels == 0 {
		c.stopTimerLocked()
		c.timer = time.AfterFunc(c.delay, c.hide)
	}
}

// Visible reports whether the controls are currently shown.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Stop releases the owned timer. Call on classroom teardown.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func (c *Controller) hide() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.panels > 0 {
		return
	}
	c.visible = false
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
