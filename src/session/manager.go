package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session bundles the per-user state the agent needs across turns.
type Session struct {
	ID           string
	Conversation *Conversation
	Ledger       *Ledger

	mu       sync.Mutex
	lastSeen time.Time

	turnMu sync.Mutex
}

// BeginTurn serialises turns within the session. The returned func releases
// the turn; callers defer it around the whole agent round trip.
func (s *Session) BeginTurn() func() {
	s.turnMu.Lock()
	return s.turnMu.Unlock
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager creates and looks up sessions and evicts ones that have been idle
// past the configured TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	system  string
	window  int
	idleTTL time.Duration
}

func NewManager(system string, window int, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*Session),
		system:   system,
		window:   window,
		idleTTL:  idleTTL,
	}
}

// Create starts a fresh session and returns it.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:           uuid.NewString(),
		Conversation: NewConversation(m.system, m.window),
		Ledger:       NewLedger(),
		lastSeen:     time.Now(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session for id, creating one under that id if none
// exists. Looking up a session refreshes its idle timer.
func (m *Manager) Get(id string) *Session {
	now := time.Now()

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch(now)
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.touch(now)
		return s
	}
	s = &Session{
		ID:           id,
		Conversation: NewConversation(m.system, m.window),
		Ledger:       NewLedger(),
		lastSeen:     now,
	}
	m.sessions[id] = s
	return s
}

// Sweep drops sessions idle longer than the TTL and returns how many were
// removed. Callers run it on a ticker.
func (m *Manager) Sweep() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTTL {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
