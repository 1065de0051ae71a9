package session

import (
	"sync"

	"github.com/jrsteele09/go-social-client/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Observer is told about every transition. prev or next is nil for the anonymous side.
type Observer func(prev, next *Session)

// View is the read-only projection of the Store handed to other components.
type View interface {
	Current() (Session, bool)
	State() State
	Subscribe(fn Observer) (unsubscribe func())
}

// Store holds the current session. Its mutators are unexported so only the
// Manager in this package can change it.
type Store struct {
	mu        sync.RWMutex
	current   *Session
	observers map[uint64]Observer
	nextID    uint64

	log     zerolog.Logger
	metrics *metrics.Client
}

var _ View = (*Store)(nil)

type StoreOption func(*Store)

func WithStoreLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = l
	}
}

func WithStoreMetrics(m *metrics.Client) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		observers: make(map[uint64]Observer),
		log:       log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns a copy of the session and whether one exists.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *Store) State() State {
	if _, ok := s.Current(); ok {
		return Authenticated
	}
	return Anonymous
}

// Subscribe registers fn for transitions. Observers run outside the store lock.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(next Session, reason string) {
	next.Authenticated = true

	s.mu.Lock()
	prev := s.current
	s.current = &next
	observers := s.snapshotObservers()
	s.mu.Unlock()

	s.log.Info().Str("username", next.Username).Int("user_id", next.UserID).Str("reason", reason).Msg("session authenticated")
	s.metrics.Transition(Authenticated.String(), reason)
	notify(observers, prev, &next)
}

// clearIf drops the session when match accepts it. It reports whether a session was dropped.
func (s *Store) clearIf(match func(Session) bool, reason string) bool {
	s.mu.Lock()
	prev := s.current
	if prev == nil || (match != nil && !match(*prev)) {
		s.mu.Unlock()
		return false
	}
	s.current = nil
	observers := s.snapshotObservers()
	s.mu.Unlock()

	s.log.Info().Str("username", prev.Username).Str("reason", reason).Msg("session cleared")
	s.metrics.Transition(Anonymous.String(), reason)
	notify(observers, prev, nil)
	return true
}

func (s *Store) snapshotObservers() []Observer {
	out := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		out = append(out, o)
	}
	return out
}

func notify(observers []Observer, prev, next *Session) {
	for _, o := range observers {
		o(prev, next)
	}
}
