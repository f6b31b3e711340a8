package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/config"
	"github.com/AngelinaFiera614/wrenchmark-sub010/filters"
	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("filter session not found")
	ErrSessionForbidden = errors.New("filter session belongs to another user")
	ErrInvalidIdleTTL   = errors.New("filter session idle TTL must be positive")
)

// DefaultSessionIdleTTL is how long a session survives without requests
const DefaultSessionIdleTTL = 30 * time.Minute

// FilterSessionOptions tunes the refresh behaviour of every session
type FilterSessionOptions struct {
	// RefreshDelay is the settling window. Default: filters.DefaultRefreshDelay.
	RefreshDelay time.Duration
	// IdleTTL evicts sessions nobody touched for this long. Default: DefaultSessionIdleTTL.
	IdleTTL time.Duration
	// AfterFunc and Now override the timer and clock (tests).
	AfterFunc filters.AfterFunc
	Now       func() time.Time
}

type filterSession struct {
	id        uuid.UUID
	ownerID   string
	ctx       context.Context
	scope     *filters.Scope
	tracker   *filters.Tracker
	refresher *filters.Coordinator
	revision  atomic.Int64
	createdAt time.Time
	updatedAt atomic.Pointer[time.Time]
	// lastSeen is the unix nano time of the latest request for this session.
	lastSeen atomic.Int64
}

// FilterSessionService keeps one filter scope, isFiltering tracker and
// refresh coordinator per open filter page
type FilterSessionService struct {
	metadata  MetadataSource
	snapshots SnapshotStore
	opts      FilterSessionOptions

	root   context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[uuid.UUID]*filterSession
	janitor  filters.Stopper
}

// NewFilterSessionService creates the service; a non-positive delay is rejected
func NewFilterSessionService(metadata MetadataSource, snapshots SnapshotStore, opts FilterSessionOptions) (*FilterSessionService, error) {
	if opts.RefreshDelay == 0 {
		opts.RefreshDelay = filters.DefaultRefreshDelay
	}
	if opts.RefreshDelay < 0 {
		return nil, filters.ErrInvalidDelay
	}
	if opts.IdleTTL == 0 {
		opts.IdleTTL = DefaultSessionIdleTTL
	}
	if opts.IdleTTL < 0 {
		return nil, ErrInvalidIdleTTL
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) filters.Stopper { return time.AfterFunc(d, f) }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	root, cancel := context.WithCancel(context.Background())
	s := &FilterSessionService{
		metadata:  metadata,
		snapshots: snapshots,
		opts:      opts,
		root:      root,
		cancel:    cancel,
		sessions:  make(map[uuid.UUID]*filterSession),
	}
	s.scheduleSweep()
	return s, nil
}

// Create provisions a new session seeded with initial
func (s *FilterSessionService) Create(ctx context.Context, ownerID string, initial models.MotorcycleFilters) (*models.FilterSessionResponse, error) {
	md, err := s.metadata.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load filter metadata: %w", err)
	}

	now := s.opts.Now().UTC()
	sess := &filterSession{
		id:        uuid.Must(uuid.NewV7()),
		ownerID:   ownerID,
		tracker:   filters.NewTracker(models.MotorcycleFilterSchema),
		createdAt: now,
	}
	sess.updatedAt.Store(&now)
	sess.lastSeen.Store(now.UnixNano())

	record := initial.Record()
	sess.refresher, err = filters.NewCoordinator(
		s.refreshAction(sess, record, 0),
		s.opts.RefreshDelay,
		filters.WithAfterFunc(s.opts.AfterFunc),
	)
	if err != nil {
		return nil, err
	}

	sess.ctx, sess.scope = filters.Provide(s.root, record, md.Shared(), func(next filters.FilterRecord) {
		s.onFilterChange(sess, next)
	})
	sess.refresher.Bind(sess.ctx)
	sess.tracker.Observe(record)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	filterSessionsActive.Inc()

	log.Printf("[filters] session %s opened for %s (active filters: %d)",
		sess.id, ownerID, filters.CountActive(models.MotorcycleFilterSchema, record))
	return s.view(sess)
}

// Get returns the session's current state
func (s *FilterSessionService) Get(ownerID string, id uuid.UUID) (*models.FilterSessionResponse, error) {
	sess, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.view(sess)
}

// Update replaces the session's filters with next and schedules a refresh
func (s *FilterSessionService) Update(ownerID string, id uuid.UUID, next models.MotorcycleFilters) (*models.FilterSessionResponse, error) {
	sess, err := s.lookup(ownerID, id)
	if err != nil {
		return nil, err
	}

	state, err := filters.Read(sess.ctx)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if err := state.SetFilters(next.Record()); err != nil {
		return nil, ErrSessionNotFound
	}
	return s.view(sess)
}

// Reset clears every filter of the session
func (s *FilterSessionService) Reset(ownerID string, id uuid.UUID) (*models.FilterSessionResponse, error) {
	return s.Update(ownerID, id, models.MotorcycleFilters{})
}

// Snapshot returns the result of the session's latest refresh
func (s *FilterSessionService) Snapshot(ctx context.Context, ownerID string, id uuid.UUID) (*models.FilterSnapshot, error) {
	if _, err := s.lookup(ownerID, id); err != nil {
		return nil, err
	}
	return s.snapshots.Load(ctx, id)
}

// Close tears the session down. A refresh still pending is cancelled.
func (s *FilterSessionService) Close(ctx context.Context, ownerID string, id uuid.UUID) error {
	sess, err := s.lookup(ownerID, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.sessions[id] != sess {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	s.teardown(sess)
	if err := s.snapshots.Delete(ctx, id); err != nil {
		log.Printf("⚠️ [filters] failed to drop snapshot for session %s: %v", id, err)
	}
	return nil
}

// Shutdown tears every session down
func (s *FilterSessionService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*filterSession)
	s.mu.Unlock()

	for _, sess := range sessions {
		s.teardown(sess)
	}

	s.cancel()
	s.mu.Lock()
	if s.janitor != nil {
		s.janitor.Stop()
		s.janitor = nil
	}
	s.mu.Unlock()
	log.Printf("✅ [filters] %d filter sessions closed", len(sessions))
}

// ── internals ────────────────────────────────────────────────────────────────

func (s *FilterSessionService) lookup(ownerID string, id uuid.UUID) (*filterSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.ownerID != ownerID {
		return nil, ErrSessionForbidden
	}
	sess.lastSeen.Store(s.opts.Now().UnixNano())
	return sess, nil
}

// scheduleSweep arms the idle janitor on the service's timer source
func (s *FilterSessionService) scheduleSweep() {
	interval := s.opts.IdleTTL / 2
	if interval <= 0 {
		interval = s.opts.IdleTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root.Err() != nil {
		return
	}
	s.janitor = s.opts.AfterFunc(interval, s.sweep)
}

// sweep evicts sessions idle for at least IdleTTL and re-arms itself
func (s *FilterSessionService) sweep() {
	if s.root.Err() != nil {
		return
	}
	cutoff := s.opts.Now().Add(-s.opts.IdleTTL).UnixNano()

	var expired []*filterSession
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.lastSeen.Load() <= cutoff {
			delete(s.sessions, id)
			expired = append(expired, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.teardown(sess)
		filterSessionsExpiredTotal.Inc()

		ctx, cancel := config.WithTimeout()
		if err := s.snapshots.Delete(ctx, sess.id); err != nil {
			log.Printf("⚠️ [filters] failed to drop snapshot for expired session %s: %v", sess.id, err)
		}
		cancel()
	}
	if len(expired) > 0 {
		log.Printf("[filters] expired %d idle filter sessions", len(expired))
	}
	s.scheduleSweep()
}

// teardown cancels the refresh before the scope goes away. A refresh that
// is already running finishes first so it cannot land after the caller
// drops the snapshot.
func (s *FilterSessionService) teardown(sess *filterSession) {
	cancelled := sess.refresher.Close()
	sess.refresher.Wait()
	sess.scope.Close()

	filterSessionsActive.Dec()
	if cancelled {
		filterRefreshesTotal.WithLabelValues("cancelled").Inc()
	}
	log.Printf("[filters] session %s closed (pending refresh cancelled: %v)", sess.id, cancelled)
}

// onFilterChange is the scope's relay: every replacement record lands here
func (s *FilterSessionService) onFilterChange(sess *filterSession, next filters.FilterRecord) {
	now := s.opts.Now().UTC()
	sess.updatedAt.Store(&now)
	filterUpdatesTotal.Inc()

	sess.tracker.Observe(next)
	revision := sess.revision.Add(1)
	if err := sess.refresher.Configure(s.refreshAction(sess, next, revision), s.opts.RefreshDelay); err != nil {
		log.Printf("❌ [filters] session %s: %v", sess.id, err)
		return
	}
	sess.refresher.Trigger()
}

// refreshAction closes over one revision of the filters. The coordinator
// always runs the one configured last.
func (s *FilterSessionService) refreshAction(sess *filterSession, record filters.FilterRecord, revision int64) func() {
	return func() {
		ctx, cancel := config.WithTimeout()
		defer cancel()

		active := filters.CountActive(models.MotorcycleFilterSchema, record)
		snapshot := models.FilterSnapshot{
			SessionID:   sess.id,
			OwnerID:     sess.ownerID,
			Filters:     models.MotorcycleFiltersFromRecord(record),
			ActiveCount: active,
			IsFiltering: active > 0,
			Revision:    revision,
			RefreshedAt: s.opts.Now().UTC(),
		}

		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			filterRefreshesTotal.WithLabelValues("failed").Inc()
			log.Printf("❌ [filters] refresh of session %s (revision %d) failed: %v", sess.id, revision, err)
			return
		}
		filterRefreshesTotal.WithLabelValues("published").Inc()
		log.Printf("[filters] session %s refreshed at revision %d", sess.id, revision)
	}
}

func (s *FilterSessionService) view(sess *filterSession) (*models.FilterSessionResponse, error) {
	state, err := filters.Read(sess.ctx)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	return &models.FilterSessionResponse{
		ID:             sess.id,
		Filters:        models.MotorcycleFiltersFromRecord(state.Filters),
		ActiveCount:    filters.CountActive(models.MotorcycleFilterSchema, state.Filters),
		IsFiltering:    sess.tracker.IsFiltering(),
		RefreshPending: sess.refresher.Pending(),
		Metadata:       state.Metadata,
		CreatedAt:      sess.createdAt,
		UpdatedAt:      *sess.updatedAt.Load(),
	}, nil
}
