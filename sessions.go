package hardlight

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStatus is the connection state of a player session.
type SessionStatus int

const (
	Connecting SessionStatus = iota
	Connected
	InGame
	Disconnected
	// Zombie is a session whose connection is gone but whose entity has not
	// been cleaned up yet.
	Zombie
)

// String returns the string representation of the status.
func (s SessionStatus) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case InGame:
		return "InGame"
	case Disconnected:
		return "Disconnected"
	case Zombie:
		return "Zombie"
	default:
		return "Unknown"
	}
}

// Active reports whether the player behind the session counts as present.
func (s SessionStatus) Active() bool {
	return s != Disconnected && s != Zombie
}

// SessionRegistry looks up player sessions by user id.
// Implementations must be safe for concurrent use.
type SessionRegistry interface {
	SessionByID(id uuid.UUID) (SessionStatus, bool)
}

// SessionTable is an in-memory SessionRegistry.
type SessionTable struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]SessionStatus
}

// NewSessionTable creates an empty session table.
func NewSessionTable() *SessionTable {
	return &SessionTable{sessions: make(map[uuid.UUID]SessionStatus)}
}

// Set records the status of a session.
func (t *SessionTable) Set(id uuid.UUID, status SessionStatus) {
	t.mu.Lock()
	t.sessions[id] = status
	t.mu.Unlock()
}

// Forget drops a session.
func (t *SessionTable) Forget(id uuid.UUID) {
	t.mu.Lock()
	delete(t.sessions, id)
	t.mu.Unlock()
}

// SessionByID implements SessionRegistry.
func (t *SessionTable) SessionByID(id uuid.UUID) (SessionStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	status, ok := t.sessions[id]
	return status, ok
}

var _ SessionRegistry = (*SessionTable)(nil)
