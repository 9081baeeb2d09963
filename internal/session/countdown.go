package session

import (
	"context"
	"errors"
	"time"
)

// The countdown recomputes remaining time from the deadline timestamp on
// every tick instead of decrementing a counter, so a delayed or coalesced
// tick cannot drift the clock. The deadline is fixed once at load time.

// runCountdown delivers one-second ticks to the session until the countdown
// finishes, submission begins, or the session closes.
func (c *Controller) runCountdown(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.handleTick() {
				return
			}
		}
	}
}

// handleTick processes one countdown tick. It returns true when no further
// ticks should be delivered. When the deadline has passed it triggers
// exactly one forced submission, exactly as if the user had submitted.
func (c *Controller) handleTick() bool {
	c.mu.Lock()
	if c.closed || c.submission != NotSubmitted || c.deadline == nil {
		c.mu.Unlock()
		return true
	}
	// The countdown fires at most once. A failed forced submission reverts
	// the submission status for a manual retry, but is never re-attempted
	// automatically.
	if c.timeExpired {
		c.mu.Unlock()
		return true
	}
	if c.now().Before(*c.deadline) {
		c.mu.Unlock()
		return false
	}
	c.timeExpired = true
	c.mu.Unlock()

	c.logger.Info("Time limit reached, auto-submitting attempt",
		"session_id", c.id,
		"assessment_id", c.assessmentID)

	// The forced submission runs on the tick goroutine with a fresh
	// context; the session outlives any HTTP request. A failure here
	// reverts the submission status but never re-arms the countdown: the
	// user retries manually.
	if _, err := c.Submit(context.Background(), true); err != nil &&
		!errors.Is(err, ErrSubmissionInProgress) && !errors.Is(err, ErrAlreadySubmitted) {
		c.logger.Error("Timer-triggered submission failed, manual retry required",
			"session_id", c.id,
			"error", err)
	}
	return true
}

// RemainingSeconds returns the whole seconds left on the countdown, never
// negative, or nil when the assessment is untimed.
func (c *Controller) RemainingSeconds() *int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingSecondsLocked()
}

func (c *Controller) remainingSecondsLocked() *int {
	if c.deadline == nil {
		return nil
	}
	remaining := c.deadline.Sub(c.now())
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return &secs
}

// armCountdownLocked starts a countdown goroutine with its own stop channel.
// Callers hold c.mu. Arming while a countdown is already running is a no-op;
// there is never more than one tick goroutine per session.
func (c *Controller) armCountdownLocked() {
	if c.countdownStop != nil {
		return
	}
	c.countdownStop = make(chan struct{})
	go c.runCountdown(c.countdownStop)
}

// stopCountdownLocked halts tick delivery. Callers hold c.mu; closing the
// channel never blocks, so holding the lock here is safe. Clearing the
// field lets a later armCountdownLocked start a fresh goroutine.
func (c *Controller) stopCountdownLocked() {
	if c.countdownStop == nil {
		return
	}
	close(c.countdownStop)
	c.countdownStop = nil
}
