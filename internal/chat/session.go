package chat

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JustJay7/consumer-complaint-assistant/internal/llm"
)

// NewSessionID returns a fresh client-facing session id
func NewSessionID() string {
	return "session_" + uuid.Must(uuid.NewV7()).String()
}

// Session is a snapshot of one conversation
type Session struct {
	ID        string        `json:"sessionId"`
	History   []llm.Message `json:"history"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// SessionStore keeps conversation history per session id
type SessionStore interface {
	// Get returns a copy of the session and refreshes its idle timer
	Get(id string) (*Session, bool)
	Create(id string) *Session
	// Append adds turns to the session, creating it when absent
	Append(id string, msgs ...llm.Message)
	// Clear drops the session and reports whether it existed
	Clear(id string) bool
	Count() int
}

// MemoryStore holds sessions in process memory. Sessions idle for longer
// than the configured duration are evicted.
type MemoryStore struct {
	mu         sync.Mutex
	sessions   *cache.Cache
	idle       time.Duration
	maxHistory int
	now        func() time.Time
}

// NewMemoryStore creates a store. A non-positive idle keeps sessions until
// cleared; a non-positive maxHistory keeps every turn.
func NewMemoryStore(idle time.Duration, maxHistory int) *MemoryStore {
	cleanup := idle
	if idle <= 0 {
		idle = cache.NoExpiration
		cleanup = 0
	}
	return &MemoryStore{
		sessions:   cache.New(idle, cleanup),
		idle:       idle,
		maxHistory: maxHistory,
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.load(id)
	if !ok {
		return nil, false
	}
	// Re-set to slide the idle expiry
	s.sessions.Set(id, sess, cache.DefaultExpiration)
	return sess.clone(), true
}

func (s *MemoryStore) Create(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	s.sessions.Set(id, sess, cache.DefaultExpiration)
	return sess.clone()
}

func (s *MemoryStore) Append(id string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.load(id)
	if !ok {
		sess = &Session{ID: id, CreatedAt: now}
	}

	sess.History = append(sess.History, msgs...)
	if s.maxHistory > 0 && len(sess.History) > s.maxHistory {
		sess.History = slices.Clone(sess.History[len(sess.History)-s.maxHistory:])
	}
	sess.UpdatedAt = now
	s.sessions.Set(id, sess, cache.DefaultExpiration)
}

func (s *MemoryStore) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions.Get(id)
	s.sessions.Delete(id)
	return ok
}

func (s *MemoryStore) Count() int {
	return s.sessions.ItemCount()
}

func (s *MemoryStore) load(id string) (*Session, bool) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*Session)
	return sess, ok
}

func (sess *Session) clone() *Session {
	c := *sess
	c.History = slices.Clone(sess.History)
	return &c
}

var _ SessionStore = (*MemoryStore)(nil)
