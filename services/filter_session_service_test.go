package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/filters"
	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"github.com/AngelinaFiera614/wrenchmark-sub010/testutil"
	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
)

type staticMetadata struct {
	md  *models.FilterMetadata
	err error
}

func (s staticMetadata) Load(context.Context) (*models.FilterMetadata, error) {
	return s.md, s.err
}

type memorySnapshots struct {
	mu      sync.Mutex
	saved   []models.FilterSnapshot
	latest  map[uuid.UUID]models.FilterSnapshot
	saveErr error
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{latest: make(map[uuid.UUID]models.FilterSnapshot)}
}

func (m *memorySnapshots) Save(_ context.Context, snap models.FilterSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snap)
	m.latest[snap.SessionID] = snap
	return nil
}

func (m *memorySnapshots) Load(_ context.Context, id uuid.UUID) (*models.FilterSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.latest[id]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return &snap, nil
}

func (m *memorySnapshots) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.latest, id)
	return nil
}

func (m *memorySnapshots) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

var catalogMetadata = &models.FilterMetadata{
	Categories: []models.CategoryData{
		{ID: "1", Name: "Sport", Subcategories: []models.CategoryData{{ID: "2", Name: "Supersport", ParentID: "1"}}},
	},
	Manufacturers: []models.ManufacturerData{{ID: "10", Name: "Honda", Models: 12}},
}

func newTestService(t *testing.T) (*FilterSessionService, *memorySnapshots, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock()
	snaps := newMemorySnapshots()
	svc, err := NewFilterSessionService(staticMetadata{md: catalogMetadata}, snaps, FilterSessionOptions{
		RefreshDelay: 500 * time.Millisecond,
		AfterFunc:    clock.AfterFunc,
		Now:          clock.Time,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Shutdown)
	return svc, snaps, clock
}

func TestCreateSession(t *testing.T) {
	svc, snaps, _ := newTestService(t)

	view, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{Make: "Honda"})
	if err != nil {
		t.Fatal(err)
	}
	if !view.IsFiltering || view.ActiveCount != 1 {
		t.Fatalf("expected one active filter, got %+v", view)
	}
	if view.RefreshPending {
		t.Fatal("creating a session should not schedule a refresh")
	}
	if len(view.Metadata.Categories) != 2 || view.Metadata.Manufacturers[0] != "Honda" {
		t.Fatalf("unexpected metadata: %+v", view.Metadata)
	}
	if snaps.count() != 0 {
		t.Fatal("unexpected snapshot on create")
	}
}

func TestCreateSessionMetadataFailure(t *testing.T) {
	svc, err := NewFilterSessionService(staticMetadata{err: errors.New("db down")}, newMemorySnapshots(), FilterSessionOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Shutdown()

	if _, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{}); err == nil {
		t.Fatal("expected error when metadata cannot be loaded")
	}
}

func TestNewServiceRejectsNegativeDelay(t *testing.T) {
	_, err := NewFilterSessionService(staticMetadata{}, newMemorySnapshots(), FilterSessionOptions{RefreshDelay: -time.Second})
	if !errors.Is(err, filters.ErrInvalidDelay) {
		t.Fatalf("expected ErrInvalidDelay, got %v", err)
	}
}

func TestUpdateBurstPublishesLatestOnce(t *testing.T) {
	svc, snaps, clock := newTestService(t)
	view, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{})
	if err != nil {
		t.Fatal(err)
	}

	edits := []models.MotorcycleFilters{
		{Make: "Honda"},
		{Make: "Honda", Categories: []string{"Sport"}},
		{Make: "Honda", Categories: []string{"Sport"}, ABS: true},
	}
	for _, edit := range edits {
		got, err := svc.Update("user-1", view.ID, edit)
		if err != nil {
			t.Fatal(err)
		}
		if !got.RefreshPending {
			t.Fatal("expected a pending refresh after an edit")
		}
		clock.Advance(100 * time.Millisecond)
	}

	if snaps.count() != 0 {
		t.Fatal("refresh fired before the window closed")
	}
	clock.Advance(time.Second)

	if snaps.count() != 1 {
		t.Fatalf("expected one snapshot, got %d", snaps.count())
	}
	snap, err := svc.Snapshot(context.Background(), "user-1", view.ID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Revision != 3 || !snap.Filters.ABS || snap.ActiveCount != 3 {
		t.Fatalf("refresh used stale filters: %+v", snap)
	}
}

func TestResetClearsFiltering(t *testing.T) {
	svc, snaps, clock := newTestService(t)
	view, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{SearchTerm: "africa twin"})
	if err != nil {
		t.Fatal(err)
	}

	reset, err := svc.Reset("user-1", view.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reset.IsFiltering || reset.ActiveCount != 0 {
		t.Fatalf("expected no active filters after reset, got %+v", reset)
	}

	clock.Advance(time.Second)
	snap, err := snaps.Load(context.Background(), view.ID)
	if err != nil || snap.IsFiltering {
		t.Fatalf("unexpected snapshot after reset: %+v, %v", snap, err)
	}
}

func TestCloseCancelsPendingRefresh(t *testing.T) {
	svc, snaps, clock := newTestService(t)
	view, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{})
	if err != nil {
		t.Fatal(err)
	}

	cancelled := filterRefreshesTotal.WithLabelValues("cancelled")
	before := promtestutil.ToFloat64(cancelled)

	if _, err := svc.Update("user-1", view.ID, models.MotorcycleFilters{Make: "BMW"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Close(context.Background(), "user-1", view.ID); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Second)

	if got := promtestutil.ToFloat64(cancelled) - before; got != 1 {
		t.Fatalf("expected one cancelled refresh, got %v", got)
	}

	if snaps.count() != 0 {
		t.Fatal("refresh fired after the session was closed")
	}
	if _, err := svc.Get("user-1", view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)
	view, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get("user-2", view.ID); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("expected ErrSessionForbidden, got %v", err)
	}
	if _, err := svc.Update("user-2", view.ID, models.MotorcycleFilters{}); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("expected ErrSessionForbidden, got %v", err)
	}
	if _, err := svc.Get("user-1", uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRefreshFailureIsContained(t *testing.T) {
	svc, snaps, clock := newTestService(t)
	snaps.saveErr = errors.New("redis unavailable")

	view, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update("user-1", view.ID, models.MotorcycleFilters{IsEntryLevel: true}); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Second)

	got, err := svc.Get("user-1", view.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RefreshPending {
		t.Fatal("failed refresh should still settle the window")
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	svc, snaps, clock := newTestService(t)
	view, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update("user-1", view.ID, models.MotorcycleFilters{Make: "KTM"}); err != nil {
		t.Fatal(err)
	}

	svc.Shutdown()
	clock.Advance(time.Second)

	if snaps.count() != 0 {
		t.Fatal("refresh fired after shutdown")
	}
	if _, err := svc.Get("user-1", view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func (s *FilterSessionService) registered(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

func TestIdleSessionsExpire(t *testing.T) {
	clock := testutil.NewManualClock()
	snaps := newMemorySnapshots()
	svc, err := NewFilterSessionService(staticMetadata{md: catalogMetadata}, snaps, FilterSessionOptions{
		RefreshDelay: 500 * time.Millisecond,
		IdleTTL:      10 * time.Minute,
		AfterFunc:    clock.AfterFunc,
		Now:          clock.Time,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Shutdown()

	abandoned, err := svc.Create(context.Background(), "user-1", models.MotorcycleFilters{})
	if err != nil {
		t.Fatal(err)
	}
	active, err := svc.Create(context.Background(), "user-2", models.MotorcycleFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update("user-1", abandoned.ID, models.MotorcycleFilters{Make: "Honda"}); err != nil {
		t.Fatal(err)
	}

	clock.Advance(4 * time.Minute)
	if _, err := snaps.Load(context.Background(), abandoned.ID); err != nil {
		t.Fatalf("expected the refresh to have published: %v", err)
	}
	if _, err := svc.Get("user-2", active.ID); err != nil {
		t.Fatal(err)
	}

	clock.Advance(6 * time.Minute)
	if svc.registered(abandoned.ID) {
		t.Fatal("idle session was not evicted")
	}
	if !svc.registered(active.ID) {
		t.Fatal("recently used session was evicted")
	}
	if _, err := snaps.Load(context.Background(), abandoned.ID); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected the evicted session's snapshot to be dropped, got %v", err)
	}
	if err := svc.Close(context.Background(), "user-1", abandoned.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	clock.Advance(5 * time.Minute)
	if svc.registered(active.ID) {
		t.Fatal("session idle since t=4m should be gone at t=15m")
	}
}

func TestNewServiceRejectsNegativeIdleTTL(t *testing.T) {
	_, err := NewFilterSessionService(staticMetadata{}, newMemorySnapshots(), FilterSessionOptions{IdleTTL: -time.Minute})
	if !errors.Is(err, ErrInvalidIdleTTL) {
		t.Fatalf("expected ErrInvalidIdleTTL, got %v", err)
	}
}
