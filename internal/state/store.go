package state

import (
	"context"
	"sync"
	"time"

	"storefront/internal/util"

	"go.uber.org/zap"
)

// Store is the single writer of one session's AppState
type Store struct {
	mu       sync.Mutex
	id       string
	state    AppState
	lastSeen time.Time
}

// NewStore creates an empty store for a session
func NewStore(id string) *Store {
	return &Store{id: id, lastSeen: time.Now()}
}

// ID returns the session id the store belongs to
func (s *Store) ID() string {
	return s.id
}

// Dispatch applies an action and returns the resulting state
func (s *Store) Dispatch(a Action) AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	return s.state
}

// State returns a snapshot of the current state
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Store) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Registry maps session ids to their stores
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*Store
	idleTTL time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewRegistry creates a registry that forgets sessions idle for longer than idleTTL
func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		stores:  make(map[string]*Store),
		idleTTL: idleTTL,
		now:     time.Now,
		logger:  util.GetLogger(),
	}
}

// Get returns the session's store, creating it on first use
func (r *Registry) Get(sessionID string) *Store {
	now := r.now()

	r.mu.Lock()
	st, ok := r.stores[sessionID]
	if !ok {
		st = NewStore(sessionID)
		r.stores[sessionID] = st
		util.ActiveSessions.Set(float64(len(r.stores)))
	}
	r.mu.Unlock()

	st.touch(now)
	return st
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Sweep drops idle sessions and returns how many were dropped
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, st := range r.stores {
		if st.idleSince(now) > r.idleTTL {
			delete(r.stores, id)
			evicted++
		}
	}
	util.ActiveSessions.Set(float64(len(r.stores)))
	return evicted
}

// Run sweeps on every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("Evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}
