package dfhost

import (
	"testing"

	"github.com/NiaAranea/HardLight"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeHandle struct {
	alive bool
	calls int
}

func (f *fakeHandle) ExecWorld(fn func(tx *world.Tx, e world.Entity)) bool {
	f.calls++
	if !f.alive {
		return false
	}
	fn(nil, nil)
	return true
}

func TestRegistryStatuses(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	status, ok := r.SessionByID(id)
	assert.False(t, ok)
	assert.Equal(t, hardlight.Disconnected, status)

	r.Connecting(id)
	status, ok = r.SessionByID(id)
	assert.True(t, ok)
	assert.Equal(t, hardlight.Connecting, status)

	r.Connected(id)
	status, _ = r.SessionByID(id)
	assert.Equal(t, hardlight.Connected, status)

	h := &fakeHandle{alive: true}
	r.track(id, h)
	status, _ = r.SessionByID(id)
	assert.Equal(t, hardlight.InGame, status)
	assert.Equal(t, 1, h.calls)

	h.alive = false
	status, ok = r.SessionByID(id)
	assert.True(t, ok)
	assert.Equal(t, hardlight.Zombie, status)
	assert.False(t, status.Active())

	r.Forget(id)
	_, ok = r.SessionByID(id)
	assert.False(t, ok)
}

func TestRegistryHandler(t *testing.T) {
	assert.NotNil(t, NewRegistry().Handler())
}
