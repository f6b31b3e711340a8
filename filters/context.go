package filters

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrMissingProvider is returned when filter state is read from a context
// that has no active provider. It signals a wiring mistake, not bad data.
var ErrMissingProvider = errors.New("filters: no filter provider in context")

// Metadata is the catalog vocabulary that travels with the filters.
type Metadata struct {
	Categories    []string `json:"categories"`
	Manufacturers []string `json:"manufacturers"`
}

// ChangeFunc receives every replacement record requested through a scope.
type ChangeFunc func(FilterRecord)

// SharedState is the borrowed view a consumer gets from Read.
type SharedState struct {
	Filters    FilterRecord
	SetFilters func(FilterRecord) error
	Metadata   Metadata
}

type scopeKey struct{}

// Scope owns the current record for one provider.
type Scope struct {
	current  atomic.Pointer[FilterRecord]
	metadata Metadata
	onChange ChangeFunc

	// relay guards queue and draining. onChange runs with it released.
	relay    sync.Mutex
	queue    []FilterRecord
	draining bool

	closed atomic.Bool
	cancel context.CancelFunc
}

// Provide installs a new scope into a context derived from parent. Every
// context derived from the returned one resolves to the same scope until a
// nearer Provide shadows it. onChange may be nil.
func Provide(parent context.Context, initial FilterRecord, metadata Metadata, onChange ChangeFunc) (context.Context, *Scope) {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{
		metadata: metadata,
		onChange: onChange,
		cancel:   cancel,
	}
	rec := initial.Clone()
	s.current.Store(&rec)
	return context.WithValue(ctx, scopeKey{}, s), s
}

// FromContext returns the nearest active scope.
func FromContext(ctx context.Context) (*Scope, error) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	if !ok || s == nil || s.closed.Load() {
		return nil, ErrMissingProvider
	}
	return s, nil
}

// Read returns the shared filter state for ctx.
func Read(ctx context.Context) (SharedState, error) {
	s, err := FromContext(ctx)
	if err != nil {
		return SharedState{}, err
	}
	return s.State(), nil
}

// MustRead is Read for callers that treat a missing provider as a bug.
func MustRead(ctx context.Context) SharedState {
	state, err := Read(ctx)
	if err != nil {
		panic(err)
	}
	return state
}

// State snapshots the scope's current revision.
func (s *Scope) State() SharedState {
	return SharedState{
		Filters:    s.Filters(),
		SetFilters: s.SetFilters,
		Metadata:   s.metadata,
	}
}

// Filters returns a copy of the current record.
func (s *Scope) Filters() FilterRecord {
	return (*s.current.Load()).Clone()
}

// Metadata returns the scope's catalog metadata.
func (s *Scope) Metadata() Metadata {
	return s.metadata
}

// SetFilters installs record as the new revision and relays it to the
// provider's onChange. Records reach onChange one at a time in the order
// they were installed. A SetFilters issued while a relay is in progress,
// including one from inside onChange, is queued and delivered by the caller
// already relaying once its current onChange returns.
func (s *Scope) SetFilters(record FilterRecord) error {
	s.relay.Lock()
	if s.closed.Load() {
		s.relay.Unlock()
		return ErrMissingProvider
	}
	rec := record.Clone()
	s.current.Store(&rec)
	if s.onChange == nil {
		s.relay.Unlock()
		return nil
	}
	s.queue = append(s.queue, rec)
	if s.draining {
		s.relay.Unlock()
		return nil
	}
	s.draining = true
	s.relay.Unlock()

	s.drain()
	return nil
}

// drain delivers queued records until the queue is empty. A panicking
// onChange propagates to the caller; records queued behind it stay queued
// for the next SetFilters.
func (s *Scope) drain() {
	defer func() {
		s.relay.Lock()
		s.draining = false
		s.relay.Unlock()
	}()

	for {
		s.relay.Lock()
		if len(s.queue) == 0 || s.closed.Load() {
			s.queue = nil
			s.relay.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.relay.Unlock()

		s.onChange(next.Clone())
	}
}

// Close ends the provisioning window. Reads through the scope's context
// fail with ErrMissingProvider afterwards and the context is cancelled.
func (s *Scope) Close() {
	if s.closed.Swap(true) {
		return
	}
	s.cancel()
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	return s.closed.Load()
}
