package accounts

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dchest/uniuri"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	sessionIDLength   = 32
)

// Memory keeps everything in maps. Passwords are stored as bcrypt hashes, sessions expire
// after the TTL passes.
type Memory struct {
	mu       sync.RWMutex
	clock    clock.Clock
	ttl      time.Duration
	cost     int
	users    map[string][]byte
	sessions map[string]Session
}

func NewMemory() *Memory {
	return &Memory{
		clock:    clock.New(),
		ttl:      DefaultSessionTTL,
		cost:     bcrypt.DefaultCost,
		users:    make(map[string][]byte),
		sessions: make(map[string]Session),
	}
}

// Clock replaces the time source.
func (m *Memory) Clock(clk clock.Clock) *Memory {
	m.clock = clk
	return m
}

// TTL sets the lifetime of newly opened sessions.
func (m *Memory) TTL(ttl time.Duration) *Memory {
	m.ttl = ttl
	return m
}

// Cost sets the bcrypt cost of newly registered passwords.
func (m *Memory) Cost(cost int) *Memory {
	m.cost = cost
	return m
}

func (m *Memory) Register(username, password string) error {
	if len(username) == 0 || len(password) == 0 {
		return ErrMissingField
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.users[username]; found {
		return ErrUserExists
	}

	m.users[username] = hash
	return nil
}

func (m *Memory) Login(username, password string) (Session, error) {
	if len(username) == 0 || len(password) == 0 {
		return Session{}, ErrMissingField
	}

	m.mu.RLock()
	hash, found := m.users[username]
	m.mu.RUnlock()

	if !found || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return Session{}, ErrBadCredentials
	}

	session := Session{
		ID:       uniuri.NewLen(sessionIDLength),
		Username: username,
		Expires:  m.clock.Now().Add(m.ttl),
	}

	m.mu.Lock()
	m.evict()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session, nil
}

func (m *Memory) Lookup(id string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, found := m.sessions[id]
	if !found || !m.clock.Now().Before(session.Expires) {
		return Session{}, false
	}

	return session, true
}

// evict drops expired sessions. Must be called with the lock held.
func (m *Memory) evict() {
	now := m.clock.Now()
	for id, session := range m.sessions {
		if !now.Before(session.Expires) {
			delete(m.sessions, id)
		}
	}
}
