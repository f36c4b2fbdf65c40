// Package netsync replicates network events to clients over websockets and
// feeds client messages back into the world.
package netsync

import (
	"encoding/json"
	"fmt"

	"github.com/NiaAranea/HardLight"
)

// Envelope is the frame exchanged on the wire in both directions.
type Envelope struct {
	Type    string              `json:"type"`
	Tick    uint64              `json:"tick,omitempty"`
	Target  hardlight.EntityUID `json:"target,omitempty"`
	Payload json.RawMessage     `json:"payload"`
}

func encode(name string, tick uint64, target hardlight.EntityUID, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", name, err)
	}
	data, err := json.Marshal(Envelope{Type: name, Tick: tick, Target: target, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", name, err)
	}
	return data, nil
}

// Registry maps wire names to constructors for the messages clients may send.
type Registry struct {
	factories map[string]func() any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() any)}
}

// Register adds a message type. A later registration under the same name
// replaces the earlier one.
func (r *Registry) Register(name string, factory func() any) {
	r.factories[name] = factory
}

// RegisterAll adds every message in the map.
func (r *Registry) RegisterAll(messages map[string]func() any) {
	for name, factory := range messages {
		r.Register(name, factory)
	}
}

// Decode turns an envelope into the registered message it carries.
func (r *Registry) Decode(env Envelope) (any, error) {
	factory, ok := r.factories[env.Type]
	if !ok {
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
	msg := factory()
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, msg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
	}
	return msg, nil
}
