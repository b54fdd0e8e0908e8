package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/pkg/errors"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// SessionStore keeps sessions in process memory. Sessions are stored
// serialized so callers never share state with the store.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "session", ID: id}
	}
	return decode(e.data)
}

func (s *SessionStore) Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := domain.NewSession(id)
	if e, ok := s.lookup(id); ok {
		var err error
		if session, err = decode(e.data); err != nil {
			return nil, err
		}
	}

	if err := fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("marshal session failed: %w", err)
	}
	s.sessions[id] = entry{data: data, expiresAt: s.now().Add(s.ttl)}

	return decode(data)
}

// lookup must be called with mu held
func (s *SessionStore) lookup(id string) (entry, bool) {
	e, ok := s.sessions[id]
	if !ok {
		return entry{}, false
	}
	if s.ttl > 0 && !s.now().Before(e.expiresAt) {
		delete(s.sessions, id)
		return entry{}, false
	}
	return e, true
}

func decode(data []byte) (*domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &session, nil
}
