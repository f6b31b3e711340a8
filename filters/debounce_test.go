package filters_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/filters"
	"github.com/AngelinaFiera614/wrenchmark-sub010/testutil"
)

const delay = 500 * time.Millisecond

func newTestCoordinator(t *testing.T, action func()) (*filters.Coordinator, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock()
	c, err := filters.NewCoordinator(action, delay, filters.WithAfterFunc(clock.AfterFunc))
	if err != nil {
		t.Fatal(err)
	}
	return c, clock
}

func TestCoordinatorRejectsNonPositiveDelay(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Millisecond} {
		if _, err := filters.NewCoordinator(func() {}, d); !errors.Is(err, filters.ErrInvalidDelay) {
			t.Errorf("delay %v: expected ErrInvalidDelay, got %v", d, err)
		}
	}

	c, _ := newTestCoordinator(t, func() {})
	if err := c.Configure(func() {}, 0); !errors.Is(err, filters.ErrInvalidDelay) {
		t.Fatalf("expected ErrInvalidDelay from Configure, got %v", err)
	}
}

func TestCoordinatorCoalescesBurst(t *testing.T) {
	var firedAt []time.Duration
	var clock *testutil.ManualClock
	c, clock := newTestCoordinator(t, func() { firedAt = append(firedAt, clock.Now()) })

	for i := 0; i < 5; i++ {
		c.Trigger()
		clock.Advance(90 * time.Millisecond)
	}
	clock.Advance(time.Second)

	if len(firedAt) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(firedAt))
	}
	if firedAt[0] != delay {
		t.Fatalf("expected fire at first trigger + delay (%v), got %v", delay, firedAt[0])
	}
	if s := c.Stats(); s.Triggers != 5 || s.Coalesced != 4 || s.Fired != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestCoordinatorRunsLatestAction(t *testing.T) {
	var a, b atomic.Int32
	c, clock := newTestCoordinator(t, func() { a.Add(1) })

	c.Trigger()
	clock.Advance(200 * time.Millisecond)
	if err := c.Configure(func() { b.Add(1) }, delay); err != nil {
		t.Fatal(err)
	}
	clock.Advance(delay)

	if a.Load() != 0 || b.Load() != 1 {
		t.Fatalf("expected only the latest action to run, a=%d b=%d", a.Load(), b.Load())
	}
}

func TestCoordinatorScenario(t *testing.T) {
	var clock *testutil.ManualClock
	var calls []string
	record := func(name string) func() {
		return func() { calls = append(calls, name+"@"+clock.Now().String()) }
	}
	c, clock := newTestCoordinator(t, record("initial"))

	c.Trigger() // t=0
	clock.Advance(100 * time.Millisecond)
	c.Trigger() // t=100
	clock.Advance(100 * time.Millisecond)
	if err := c.Configure(record("configured-at-200"), delay); err != nil {
		t.Fatal(err)
	}
	clock.Advance(100 * time.Millisecond)
	c.Trigger() // t=300
	clock.Advance(time.Second)

	if len(calls) != 1 || calls[0] != "configured-at-200@500ms" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestCoordinatorRestartsAfterSettle(t *testing.T) {
	var clock *testutil.ManualClock
	var firedAt []time.Duration
	c, clock := newTestCoordinator(t, func() { firedAt = append(firedAt, clock.Now()) })

	c.Trigger()
	clock.Advance(delay)
	if c.Pending() {
		t.Fatal("expected idle after firing")
	}

	clock.Advance(250 * time.Millisecond)
	c.Trigger()
	clock.Advance(delay)

	want := []time.Duration{delay, 2*delay + 250*time.Millisecond}
	if len(firedAt) != 2 || firedAt[0] != want[0] || firedAt[1] != want[1] {
		t.Fatalf("expected fires at %v, got %v", want, firedAt)
	}
}

func TestCoordinatorCloseCancels(t *testing.T) {
	calls := 0
	c, clock := newTestCoordinator(t, func() { calls++ })

	c.Trigger()
	clock.Advance(100 * time.Millisecond)
	if !c.Close() {
		t.Fatal("Close should report the cancelled window")
	}
	if c.Close() {
		t.Fatal("second Close should cancel nothing")
	}
	clock.Advance(time.Second)

	if calls != 0 {
		t.Fatalf("action ran after Close")
	}
	if clock.Scheduled() != 0 {
		t.Fatal("pending timer not stopped")
	}

	c.Trigger()
	clock.Advance(time.Second)
	if calls != 0 {
		t.Fatal("Trigger after Close scheduled a refresh")
	}
	if s := c.Stats(); s.Cancelled != 1 {
		t.Fatalf("expected 1 cancellation, got %+v", s)
	}
}

func TestCoordinatorBindClosesOnContextDone(t *testing.T) {
	calls := 0
	c, clock := newTestCoordinator(t, func() { calls++ })

	ctx, cancel := context.WithCancel(context.Background())
	c.Bind(ctx)

	c.Trigger()
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for c.Pending() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	clock.Advance(time.Second)
	if calls != 0 {
		t.Fatal("action ran after owner context ended")
	}
}

func TestCoordinatorActionMayRetrigger(t *testing.T) {
	var c *filters.Coordinator
	calls := 0
	c, clock := newTestCoordinator(t, func() {
		calls++
		if calls == 1 {
			c.Trigger()
		}
	})

	c.Trigger()
	clock.Advance(delay)
	clock.Advance(delay)
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestCoordinatorRealTimer(t *testing.T) {
	done := make(chan struct{})
	c, err := filters.NewCoordinator(func() { close(done) }, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.Trigger()
	c.Trigger()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never fired")
	}
}

func TestCoordinatorActionPanicSettlesWindow(t *testing.T) {
	calls := 0
	c, clock := newTestCoordinator(t, func() {
		calls++
		if calls == 1 {
			panic("refresh failed")
		}
	})

	c.Trigger()
	func() {
		defer func() {
			if r := recover(); r != "refresh failed" {
				t.Fatalf("expected the action panic to reach Advance, got %v", r)
			}
		}()
		clock.Advance(delay)
	}()

	if c.Pending() {
		t.Fatal("window still pending after the action panicked")
	}
	c.Trigger()
	if !c.Pending() {
		t.Fatal("Trigger after a panic should open a fresh window")
	}
	clock.Advance(delay)
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestCoordinatorWaitBlocksOnRunningAction(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c, err := filters.NewCoordinator(func() {
		close(started)
		<-release
	}, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	c.Trigger()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never fired")
	}
	if c.Close() {
		t.Fatal("a claimed window is not cancellable")
	}

	var waited atomic.Bool
	done := make(chan struct{})
	go func() {
		c.Wait()
		waited.Store(true)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	if waited.Load() {
		t.Fatal("Wait returned while the action was running")
	}
	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait never returned")
	}
}
