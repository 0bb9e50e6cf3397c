// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/partyroom/impostor/network"
)

// Session is one live socket. Transport identity (the server-generated ID)
// is deliberately separate from player identity (the client-generated UID):
// reconnects swap the session, never the player.
type Session struct {
	ID         string
	Conn       network.Connection
	UID        string
	RoomCode   string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Bind attaches player identity once the join-room message arrives.
func (s *Session) Bind(uid, roomCode string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UID = uid
	s.RoomCode = roomCode
	s.LastActive = time.Now()
}

// Bound returns the player identity, or ("", "") before join.
func (s *Session) Bound() (uid, roomCode string) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.UID, s.RoomCode
}

func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.LastActive = time.Now()
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks every live session in the process.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetByUID returns every session bound to a player uid. More than one can
// exist transiently while a reconnect replaces the old socket.
func (m *Manager) GetByUID(uid string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		sessionUID, _ := session.Bound()
		if sessionUID == uid {
			result = append(result, session)
		}
	}
	return result
}

// All returns a snapshot of every live session.
func (m *Manager) All() []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
