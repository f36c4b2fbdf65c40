package hardlight

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

// EntityUID identifies an entity within a Manager. The zero value is invalid.
type EntityUID uint64

// Invalid is the zero EntityUID.
const Invalid EntityUID = 0

// Valid reports whether the uid could refer to an entity.
func (u EntityUID) Valid() bool {
	return u != Invalid
}

// String returns a short debug form of the uid.
func (u EntityUID) String() string {
	return fmt.Sprintf("ent#%d", uint64(u))
}

// Entity is a live entity in the world together with every component attached
// to it. Entities are created with Manager.Spawn and live until deleted.
//
// An Entity must only be touched from the goroutine driving Manager.Tick.
type Entity struct {
	uid EntityUID

	// prototype is the prototype id the entity was spawned from, if any
	prototype string

	// mask tracks which components are present
	mask Bitmask

	// components stores component pointers indexed by ComponentID
	components [MaxComponents]unsafe.Pointer

	manager *Manager

	// terminating is set once the entity is queued for deletion
	terminating bool

	deleted bool
}

// UID returns the entity's identifier.
func (e *Entity) UID() EntityUID {
	return e.uid
}

// Prototype returns the prototype id the entity was spawned from.
func (e *Entity) Prototype() string {
	return e.prototype
}

// Manager returns the manager that owns the entity.
func (e *Entity) Manager() *Manager {
	return e.manager
}

// Terminating reports whether the entity is queued for deletion.
func (e *Entity) Terminating() bool {
	return e.terminating
}

// Deleted reports whether the entity has been deleted.
func (e *Entity) Deleted() bool {
	return e.deleted
}

// Mask returns a copy of the entity's component bitmask.
func (e *Entity) Mask() Bitmask {
	return e.mask
}

// Dispatch raises a directed event at this entity.
// See Manager.RaiseLocalEvent.
func (e *Entity) Dispatch(event any) {
	if e.manager == nil || e.deleted {
		return
	}
	e.manager.dispatchTo(e, event)
}

// String returns a debug representation listing the entity's components.
func (e *Entity) String() string {
	var comps []string
	for id := range ComponentID(MaxComponents) {
		if e.mask.Has(id) {
			comps = append(comps, ComponentName(id))
		}
	}
	name := e.prototype
	if md := Get[MetaData](e); md != nil && md.Name != "" {
		name = md.Name
	}
	return fmt.Sprintf("%s (%s) [%s]", name, e.uid, strings.Join(comps, ", "))
}

// canRun checks if the entity passes the bitmask filter for a system.
func (e *Entity) canRun(meta *SystemMeta) bool {
	return e.mask.Matches(meta.RequireMask, meta.ExcludeMask)
}

// attachRaw stores a component of any type without running hooks.
// It returns the component's type, or nil if the value is not a struct pointer.
func (e *Entity) attachRaw(component any) reflect.Type {
	val := reflect.ValueOf(component)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return nil
	}
	t := val.Type().Elem()
	id := registerComponentType(t)
	e.components[id] = val.UnsafePointer()
	e.mask.Set(id)
	return t
}

// removeComponent removes a component by ID, running Detach and dispatching
// ComponentShutdown.
func (e *Entity) removeComponent(id ComponentID) bool {
	ptr := e.components[id]
	if ptr == nil {
		return false
	}

	// Clear before calling Detach to prevent re-entrancy issues
	e.components[id] = nil
	e.mask.Clear(id)

	t := ComponentType(id)
	if t == nil {
		return true
	}
	if d, ok := reflect.NewAt(t, ptr).Interface().(Detachable); ok {
		d.Detach(e)
	}
	e.Dispatch(ComponentShutdown{ComponentType: t})
	return true
}

// teardown removes every component. Detach hooks run but no events are dispatched.
func (e *Entity) teardown() {
	var toDetach []Detachable
	for id := range ComponentID(MaxComponents) {
		ptr := e.components[id]
		if ptr == nil {
			continue
		}
		if t := ComponentType(id); t != nil {
			if d, ok := reflect.NewAt(t, ptr).Interface().(Detachable); ok {
				toDetach = append(toDetach, d)
			}
		}
	}
	for _, d := range toDetach {
		d.Detach(e)
	}

	for id := range ComponentID(MaxComponents) {
		e.components[id] = nil
	}
	e.mask = Bitmask{}
}
