package hardlight

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"slices"
	"sync"
)

// Manager is the central coordinator. It owns the entity registry, the
// resources, the registered handlers and the scheduler.
//
// All world access happens on the goroutine calling Tick (or Run). Other
// goroutines hand work over with Post.
type Manager struct {
	bundles  []*Bundle
	handlers []*handlerMeta

	// resources maps a declared type to its value
	resources map[reflect.Type]reflect.Value

	entities map[EntityUID]*Entity

	// order holds live uids in ascending order
	order   []EntityUID
	nextUID EntityUID

	prototypes map[string]PrototypeFactory

	// deleteQueue holds uids queued with QueueDel, flushed at the end of a tick
	deleteQueue []EntityUID
	queued      map[EntityUID]struct{}

	nextMap MapID

	scheduler *Scheduler
	timing    *Timing
	network   NetworkSink
	log       *slog.Logger

	postMu sync.Mutex
	posted []func(*Manager)
}

// newManager creates a new manager with the built-in resources registered.
func newManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		resources:  make(map[reflect.Type]reflect.Value),
		entities:   make(map[EntityUID]*Entity),
		prototypes: make(map[string]PrototypeFactory),
		queued:     make(map[EntityUID]struct{}),
		timing:     &Timing{},
		network:    nopSink{},
		log:        log,
	}
	m.scheduler = newScheduler(m)

	m.addResource(reflect.TypeOf(m.timing), reflect.ValueOf(m.timing))
	m.addResource(reflect.TypeOf(log), reflect.ValueOf(log))
	xform := &Transforms{m: m}
	m.addResource(reflect.TypeOf(xform), reflect.ValueOf(xform))
	lookup := &Lookup{m: m}
	m.addResource(reflect.TypeOf(lookup), reflect.ValueOf(lookup))
	return m
}

func (m *Manager) addResource(t reflect.Type, v reflect.Value) {
	if _, ok := m.resources[t]; ok {
		m.log.Warn("resource registered twice, replacing", "type", t.String())
	}
	m.resources[t] = v
}

// resource returns the resource registered for t. Interface types fall back to
// the first registered resource implementing them.
func (m *Manager) resource(t reflect.Type) (reflect.Value, bool) {
	if v, ok := m.resources[t]; ok {
		return v, true
	}
	if t.Kind() != reflect.Interface {
		return reflect.Value{}, false
	}
	for rt, v := range m.resources {
		if rt.Implements(t) {
			m.resources[t] = v
			return v, true
		}
	}
	return reflect.Value{}, false
}

// Resource returns the resource of type T registered with the manager.
func Resource[T any](m *Manager) (T, bool) {
	var zero T
	v, ok := m.resource(TypeOf[T]())
	if !ok {
		return zero, false
	}
	res, ok := v.Interface().(T)
	return res, ok
}

// Logger returns the manager's logger.
func (m *Manager) Logger() *slog.Logger {
	return m.log
}

// Timing returns the game timing of the manager.
func (m *Manager) Timing() *Timing {
	return m.timing
}

// Transforms returns the transform helpers bound to this manager.
func (m *Manager) Transforms() *Transforms {
	v, _ := Resource[*Transforms](m)
	return v
}

// Lookup returns the spatial lookup bound to this manager.
func (m *Manager) Lookup() *Lookup {
	v, _ := Resource[*Lookup](m)
	return v
}

// Spawn creates an entity from a prototype at the given coordinates. An empty
// prototype spawns a bare entity. Extra components are attached after the
// prototype's own, replacing components of the same type.
//
// Every component is stored before the ComponentStartup events fire, so a
// startup handler sees the complete entity.
func (m *Manager) Spawn(proto string, coords Coordinates, comps ...any) (*Entity, error) {
	var all []any
	if proto != "" {
		factory, ok := m.prototypes[proto]
		if !ok {
			return nil, fmt.Errorf("spawn: unknown prototype %q", proto)
		}
		all = append(all, factory()...)
	}
	all = append(all, comps...)

	m.nextUID++
	e := &Entity{
		uid:       m.nextUID,
		prototype: proto,
		manager:   m,
	}
	m.entities[e.uid] = e
	m.order = append(m.order, e.uid)

	xform := &Transform{}
	md := &MetaData{Prototype: proto}
	var types []reflect.Type
	for _, c := range all {
		switch c := c.(type) {
		case *Transform:
			xform = c
			continue
		case *MetaData:
			md = c
			if md.Prototype == "" {
				md.Prototype = proto
			}
			continue
		}
		t := e.attachRaw(c)
		if t == nil {
			m.log.Warn("spawn: ignoring non-struct-pointer component", "prototype", proto, "type", fmt.Sprintf("%T", c))
			continue
		}
		types = append(types, t)
	}

	m.Transforms().place(e, xform, coords)
	types = append([]reflect.Type{e.attachRaw(xform), e.attachRaw(md)}, types...)

	for _, t := range types {
		id := registerComponentType(t)
		if a, ok := reflect.NewAt(t, e.components[id]).Interface().(Attachable); ok {
			a.Attach(e)
		}
	}
	for _, t := range types {
		if e.deleted {
			break
		}
		e.Dispatch(ComponentStartup{ComponentType: t})
	}
	return e, nil
}

// Entity returns the live entity with the uid, or nil.
func (m *Manager) Entity(uid EntityUID) *Entity {
	return m.entities[uid]
}

// Exists reports whether the uid refers to a live entity.
func (m *Manager) Exists(uid EntityUID) bool {
	_, ok := m.entities[uid]
	return ok
}

// TerminatingOrDeleted reports whether the entity is gone or being deleted.
func (m *Manager) TerminatingOrDeleted(uid EntityUID) bool {
	e, ok := m.entities[uid]
	return !ok || e.terminating || e.deleted
}

// QueueDel queues the entity for deletion at the end of the current tick.
// Queueing twice is harmless.
func (m *Manager) QueueDel(uid EntityUID) {
	if !m.Exists(uid) {
		return
	}
	if _, ok := m.queued[uid]; ok {
		return
	}
	m.queued[uid] = struct{}{}
	m.deleteQueue = append(m.deleteQueue, uid)
}

// Delete removes the entity and every entity parented to it immediately.
func (m *Manager) Delete(uid EntityUID) {
	e, ok := m.entities[uid]
	if !ok || e.terminating {
		return
	}
	e.terminating = true
	e.Dispatch(EntityTerminating{Entity: uid})

	for _, child := range m.children(uid) {
		m.Delete(child)
	}

	e.teardown()
	e.deleted = true
	delete(m.entities, uid)
	delete(m.queued, uid)
	if i, found := slices.BinarySearch(m.order, uid); found {
		m.order = slices.Delete(m.order, i, i+1)
	}
}

// children returns the uids whose transform parent is uid.
func (m *Manager) children(uid EntityUID) []EntityUID {
	var out []EntityUID
	for _, id := range m.order {
		if id == uid {
			continue
		}
		if x := Get[Transform](m.entities[id]); x != nil && x.Parent == uid {
			out = append(out, id)
		}
	}
	return out
}

// flushDeletions deletes every entity queued with QueueDel.
func (m *Manager) flushDeletions() {
	for len(m.deleteQueue) > 0 {
		queue := m.deleteQueue
		m.deleteQueue = nil
		for _, uid := range queue {
			m.Delete(uid)
		}
	}
	clear(m.queued)
}

// Query returns the live entities whose components satisfy the masks, in
// ascending uid order. The slice is a snapshot.
func (m *Manager) Query(require, exclude Bitmask) []*Entity {
	var out []*Entity
	for _, uid := range m.order {
		e := m.entities[uid]
		if e.terminating || !e.mask.Matches(require, exclude) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// EntitiesWith returns the live entities carrying component T in ascending uid order.
func EntitiesWith[T any](m *Manager) []*Entity {
	var require Bitmask
	require.Set(componentID[T]())
	return m.Query(require, Bitmask{})
}

// RaiseLocalEvent raises a directed event at an entity. Only handlers with an
// *Entity field whose filter matches the entity receive it.
func (m *Manager) RaiseLocalEvent(uid EntityUID, event any) {
	e, ok := m.entities[uid]
	if !ok {
		return
	}
	e.Dispatch(event)
}

// Broadcast raises an event at every handler without an *Entity field.
func (m *Manager) Broadcast(event any) {
	m.broadcast(event)
}

// RaiseNetworkEvent publishes the event to the network sink, stamped with
// the current tick.
func (m *Manager) RaiseNetworkEvent(event any) {
	m.network.Publish(NetworkMessage{
		Tick:    m.timing.CurTick,
		Name:    NetworkName(event),
		Payload: event,
	})
}

// Post schedules fn to run on the tick goroutine at the start of the next tick.
// It is safe to call from any goroutine.
func (m *Manager) Post(fn func(*Manager)) {
	m.postMu.Lock()
	m.posted = append(m.posted, fn)
	m.postMu.Unlock()
}

func (m *Manager) drainPosted() {
	m.postMu.Lock()
	posted := m.posted
	m.posted = nil
	m.postMu.Unlock()

	for _, fn := range posted {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.handleSystemPanic("posted", "func", r)
				}
			}()
			fn(m)
		}()
	}
}

// build analyzes every bundle and registers its systems.
func (m *Manager) build() error {
	for _, bundle := range m.bundles {
		if err := bundle.build(); err != nil {
			return fmt.Errorf("bundle %s: %w", bundle.name, err)
		}
		for _, meta := range bundle.handlerMeta {
			m.handlers = append(m.handlers, newHandlerMeta(meta))
		}
		for i, meta := range bundle.loopMeta {
			m.scheduler.addLoop(meta, bundle.loops[i].interval)
		}
	}
	return nil
}

func (m *Manager) handleSystemPanic(kind, name string, recovered any) {
	m.log.Error("system panicked",
		"kind", kind,
		"system", name,
		"panic", fmt.Sprint(recovered),
		"stack", string(debug.Stack()),
	)
}

// EntityTerminating is dispatched at an entity right before it is deleted.
type EntityTerminating struct {
	Entity EntityUID
}
