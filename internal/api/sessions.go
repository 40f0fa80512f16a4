package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/JustJay7/case-consult/internal/casefile"
)

// SessionHeader carries the id of the caller's selected-case session.
const SessionHeader = "X-Session-ID"

// sessionStore keeps one casefile.Session per client. Idle sessions expire
// together with their history caches.
type sessionStore struct {
	service  *casefile.Service
	sessions *gocache.Cache
	mu       sync.Mutex
}

func newSessionStore(service *casefile.Service, ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionStore{
		service:  service,
		sessions: gocache.New(ttl, ttl/2),
	}
}

// resolve returns the session for id, creating one when id is unknown.
// Unknown ids are reused only when they are well-formed UUIDs.
func (s *sessionStore) resolve(id string) (string, *casefile.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.get(id); ok {
		return id, sess
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	sess := s.service.NewSession()
	s.sessions.SetDefault(id, sess)

	return id, sess
}

// lookup returns an existing session without creating one.
func (s *sessionStore) lookup(id string) (*casefile.Session, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(id)
}

func (s *sessionStore) remove(id string) {
	s.sessions.Delete(id)
}

func (s *sessionStore) count() int {
	return s.sessions.ItemCount()
}

// get refreshes the expiry of a session on every access. Callers hold mu.
func (s *sessionStore) get(id string) (*casefile.Session, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*casefile.Session)
	s.sessions.SetDefault(id, sess)
	return sess, true
}
