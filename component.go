package hardlight

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// ComponentID is a unique identifier for a component type.
type ComponentID uint8

// MaxComponents is the maximum number of component types supported.
const MaxComponents = 255

// componentRegistry assigns IDs to component types on first use.
// IDs are process-wide so that every Manager agrees on the bitmask layout.
type componentRegistry struct {
	// types maps reflect.Type to ComponentID; lookups are lock-free
	types sync.Map

	// byName maps a component's type name to its ID for whitelists
	byName sync.Map

	names    [MaxComponents]string
	typesArr [MaxComponents]reflect.Type

	nextID atomic.Uint32

	// arrMu guards names and typesArr
	arrMu sync.RWMutex
}

var globalRegistry = &componentRegistry{}

// registerComponentType registers a component type and returns its ID.
func registerComponentType(t reflect.Type) ComponentID {
	if id, ok := globalRegistry.types.Load(t); ok {
		return id.(ComponentID)
	}

	newID := ComponentID(globalRegistry.nextID.Add(1) - 1)
	if newID >= MaxComponents {
		panic(fmt.Sprintf("hardlight: component limit exceeded (max %d types)", MaxComponents))
	}

	actual, loaded := globalRegistry.types.LoadOrStore(t, newID)
	if loaded {
		return actual.(ComponentID)
	}

	globalRegistry.arrMu.Lock()
	globalRegistry.names[newID] = t.Name()
	globalRegistry.typesArr[newID] = t
	globalRegistry.arrMu.Unlock()
	globalRegistry.byName.LoadOrStore(t.Name(), newID)

	return newID
}

// componentID returns the ComponentID for type T, registering it if needed.
func componentID[T any]() ComponentID {
	return registerComponentType(reflect.TypeOf((*T)(nil)).Elem())
}

// ComponentIDByName looks up a registered component by its type name.
// Only types that have been used at least once are known.
func ComponentIDByName(name string) (ComponentID, bool) {
	if id, ok := globalRegistry.byName.Load(name); ok {
		return id.(ComponentID), true
	}
	return 0, false
}

// ComponentName returns the type name of the component with the given ID.
func ComponentName(id ComponentID) string {
	globalRegistry.arrMu.RLock()
	defer globalRegistry.arrMu.RUnlock()
	return globalRegistry.names[id]
}

// ComponentType returns the reflect.Type of the component with the given ID.
func ComponentType(id ComponentID) reflect.Type {
	globalRegistry.arrMu.RLock()
	defer globalRegistry.arrMu.RUnlock()
	return globalRegistry.typesArr[id]
}

// TypeOf returns the reflect.Type for component type T.
// Handlers use it to match ComponentStartup and ComponentShutdown events.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Attachable is implemented by components that need initialization logic
// when attached to an entity.
type Attachable interface {
	Attach(e *Entity)
}

// Detachable is implemented by components that need cleanup logic
// when removed from an entity or when the entity is deleted.
type Detachable interface {
	Detach(e *Entity)
}

// ComponentStartup is dispatched at an entity after a component has been
// attached. For spawned entities it fires once every spawn component is present.
type ComponentStartup struct {
	ComponentType reflect.Type
}

// ComponentShutdown is dispatched at an entity after a component has been removed.
type ComponentShutdown struct {
	ComponentType reflect.Type
}

// Add attaches a component to the entity, replacing any component of the same type.
// Attach hooks run and a ComponentStartup event is dispatched.
func Add[T any](e *Entity, component *T) *T {
	if e == nil || component == nil || e.deleted {
		return component
	}

	id := componentID[T]()
	if old := e.components[id]; old != nil {
		if d, ok := any((*T)(old)).(Detachable); ok {
			d.Detach(e)
		}
	}

	e.components[id] = unsafe.Pointer(component)
	e.mask.Set(id)

	if a, ok := any(component).(Attachable); ok {
		a.Attach(e)
	}

	e.Dispatch(ComponentStartup{ComponentType: TypeOf[T]()})
	return component
}

// Ensure returns the entity's component of type T, attaching a zero value first
// if none is present.
func Ensure[T any](e *Entity) *T {
	if c := Get[T](e); c != nil {
		return c
	}
	return Add(e, new(T))
}

// Remove detaches a component from the entity. It reports whether a component
// was present.
func Remove[T any](e *Entity) bool {
	if e == nil {
		return false
	}
	return e.removeComponent(componentID[T]())
}

// Get retrieves a component from the entity, or nil if it is not present.
func Get[T any](e *Entity) *T {
	if e == nil {
		return nil
	}
	ptr := e.components[componentID[T]()]
	if ptr == nil {
		return nil
	}
	return (*T)(ptr)
}

// Has reports whether a component type is present on the entity.
func Has[T any](e *Entity) bool {
	if e == nil {
		return false
	}
	return e.mask.Has(componentID[T]())
}

// MaskOf builds a bitmask from component types.
func MaskOf(types ...reflect.Type) Bitmask {
	var m Bitmask
	for _, t := range types {
		m.Set(registerComponentType(t))
	}
	return m
}
