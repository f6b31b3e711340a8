package filters

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRefreshDelay is the settling window used by filter pages.
const DefaultRefreshDelay = 500 * time.Millisecond

// ErrInvalidDelay is returned for a non-positive refresh delay.
var ErrInvalidDelay = errors.New("filters: refresh delay must be positive")

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) Stopper

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(after AfterFunc) Option {
	return func(c *Coordinator) {
		if after != nil {
			c.after = after
		}
	}
}

// CoordinatorStats are point-in-time counters.
type CoordinatorStats struct {
	Triggers  int64 `json:"triggers"`
	Coalesced int64 `json:"coalesced"`
	Fired     int64 `json:"fired"`
	Cancelled int64 `json:"cancelled"`
}

// Coordinator collapses a burst of Trigger calls into one call of the most
// recently configured action. The window opens on the first Trigger of a
// burst and is not extended by later ones.
type Coordinator struct {
	after AfterFunc

	mu      sync.Mutex
	action  func()
	delay   time.Duration
	pending Stopper
	window  uint64
	closed  bool

	// running counts claimed actions; Add happens under mu.
	running sync.WaitGroup

	triggers  atomic.Int64
	coalesced atomic.Int64
	fired     atomic.Int64
	cancelled atomic.Int64
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator(action func(), delay time.Duration, opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		after: func(d time.Duration, f func()) Stopper { return time.AfterFunc(d, f) },
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Configure(action, delay); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure swaps the action run at fire time and the delay used by the
// next window. A pending window keeps its schedule but will run action.
func (c *Coordinator) Configure(action func(), delay time.Duration) error {
	if delay <= 0 {
		return ErrInvalidDelay
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.action = action
	c.delay = delay
	return nil
}

// Trigger opens a window if none is pending. It is a no-op after Close.
func (c *Coordinator) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.triggers.Add(1)
	if c.pending != nil {
		c.coalesced.Add(1)
		return
	}
	c.window++
	window := c.window
	c.pending = c.after(c.delay, func() { c.fire(window) })
}

func (c *Coordinator) fire(window uint64) {
	c.mu.Lock()
	if c.closed || c.pending == nil || window != c.window {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	action := c.action
	c.running.Add(1)
	c.mu.Unlock()

	defer c.running.Done()
	c.fired.Add(1)
	if action != nil {
		action()
	}
}

// Pending reports whether a window is open.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Close cancels a pending window and reports whether there was one. A
// window whose timer already claimed its action still runs; Wait blocks
// until it returns.
func (c *Coordinator) Close() (cancelled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	c.closed = true
	if c.pending == nil {
		return false
	}
	c.pending.Stop()
	c.pending = nil
	c.cancelled.Add(1)
	return true
}

// Wait blocks until no action is running. Call it after Close, and never
// from inside the action.
func (c *Coordinator) Wait() {
	c.running.Wait()
}

// Bind closes the coordinator once ctx is done. The returned stop detaches
// it again.
func (c *Coordinator) Bind(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() { c.Close() })
}

// Stats returns the current counters.
func (c *Coordinator) Stats() CoordinatorStats {
	return CoordinatorStats{
		Triggers:  c.triggers.Load(),
		Coalesced: c.coalesced.Load(),
		Fired:     c.fired.Load(),
		Cancelled: c.cancelled.Load(),
	}
}
