// Package dfhost adapts a dragonfly server's players into the session
// registry the gameplay systems query.
package dfhost

import (
	"sync"

	"github.com/NiaAranea/HardLight"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// worldHandle is the part of *world.EntityHandle the registry needs.
type worldHandle interface {
	ExecWorld(f func(tx *world.Tx, e world.Entity)) bool
}

type entry struct {
	status hardlight.SessionStatus
	handle worldHandle
}

// Registry tracks dragonfly players by UUID. A tracked player whose entity
// handle can no longer run in a world is reported as Zombie.
//
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	players map[uuid.UUID]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[uuid.UUID]*entry)}
}

// Connecting records a player that is logging in but has not spawned yet.
func (r *Registry) Connecting(id uuid.UUID) {
	r.set(id, &entry{status: hardlight.Connecting})
}

// Connected records a player whose login finished but has not spawned yet.
func (r *Registry) Connected(id uuid.UUID) {
	r.set(id, &entry{status: hardlight.Connected})
}

// Track records a player that has joined a world.
func (r *Registry) Track(p *player.Player) {
	r.track(p.UUID(), p.H())
}

func (r *Registry) track(id uuid.UUID, h worldHandle) {
	r.set(id, &entry{status: hardlight.InGame, handle: h})
}

func (r *Registry) set(id uuid.UUID, e *entry) {
	r.mu.Lock()
	r.players[id] = e
	r.mu.Unlock()
}

// Forget drops a player that left the server.
func (r *Registry) Forget(id uuid.UUID) {
	r.mu.Lock()
	delete(r.players, id)
	r.mu.Unlock()
}

// SessionByID returns the status of the player's session. Unknown players
// report Disconnected and false.
//
// For an in-game player this runs an empty transaction in the player's world,
// so it must not be called from inside a world transaction.
func (r *Registry) SessionByID(id uuid.UUID) (hardlight.SessionStatus, bool) {
	r.mu.RLock()
	e, ok := r.players[id]
	r.mu.RUnlock()
	if !ok {
		return hardlight.Disconnected, false
	}
	if e.handle == nil {
		return e.status, true
	}
	if !e.handle.ExecWorld(func(*world.Tx, world.Entity) {}) {
		return hardlight.Zombie, true
	}
	return hardlight.InGame, true
}

// Handler returns a player handler that forgets the player on quit. Hosts
// with their own handler call Forget from its HandleQuit instead.
func (r *Registry) Handler() player.Handler {
	return &quitHandler{registry: r}
}

type quitHandler struct {
	player.NopHandler
	registry *Registry
}

// HandleQuit forgets the quitting player.
func (h *quitHandler) HandleQuit(p *player.Player) {
	h.registry.Forget(p.UUID())
}

var _ hardlight.SessionRegistry = (*Registry)(nil)
