package lifecycle

import (
	"context"
	"sync"
	"time"

	"conversor/internal/logger"
)

// ActivityTracker records when the application last served a request.
type ActivityTracker struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewActivityTracker creates a tracker whose last activity is now.
func NewActivityTracker() *ActivityTracker {
	t := &ActivityTracker{now: time.Now}
	t.last = t.now()
	return t
}

// Touch marks the current time as the last activity.
func (t *ActivityTracker) Touch() {
	t.mu.Lock()
	t.last = t.now()
	t.mu.Unlock()
}

// LastActivity returns the time of the last Touch.
func (t *ActivityTracker) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Idle returns how long the tracker has gone without a Touch.
func (t *ActivityTracker) Idle() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.last)
}

// MonitorIdle checks the tracker every interval and calls onIdle once when
// it has been idle for at least timeout. It returns when ctx is done or after
// onIdle has run.
func MonitorIdle(ctx context.Context, tracker *ActivityTracker, timeout, interval time.Duration, onIdle func()) {
	if timeout <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			idle := tracker.Idle()
			if idle >= timeout {
				logger.Infof("[Lifecycle] Idle for %s, shutting down", idle.Round(time.Second))
				onIdle()
				return
			}
		}
	}
}
