package hardlight

import (
	"log/slog"
	"reflect"
)

// PrototypeFactory returns fresh components for a new entity of a prototype.
type PrototypeFactory func() []any

// Builder configures a Manager before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	bundles   []func(*Manager) *Bundle
	resources []resourceRegistration
	log       *slog.Logger
	network   NetworkSink
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bundle adds a bundle to the builder.
func (b *Builder) Bundle(callback func(*Manager) *Bundle) *Builder {
	b.bundles = append(b.bundles, callback)
	return b
}

// Resource adds a global resource available to all bundles, keyed by its
// dynamic type.
func (b *Builder) Resource(res any) *Builder {
	b.resources = append(b.resources, resourceRegistration{
		typ:   reflect.TypeOf(res),
		value: reflect.ValueOf(res),
	})
	return b
}

// Sessions sets the session registry systems look players up in.
func (b *Builder) Sessions(reg SessionRegistry) *Builder {
	b.resources = append(b.resources, resourceRegistration{
		typ:   TypeOf[SessionRegistry](),
		value: reflect.ValueOf(&reg).Elem(),
	})
	return b
}

// Network sets the sink for Manager.RaiseNetworkEvent.
func (b *Builder) Network(sink NetworkSink) *Builder {
	b.network = sink
	return b
}

// Logger sets the logger. It is also registered as a *slog.Logger resource.
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.log = log
	return b
}

// Init builds the manager. Global resources are registered, then bundles are
// added in order with their resources, then the systems are analyzed. A
// system that fails analysis is a programming error and panics.
func (b *Builder) Init() *Manager {
	m := newManager(b.log)
	if b.network != nil {
		m.network = b.network
	}

	// Global resources first so bundle callbacks can see them
	for _, res := range b.resources {
		m.addResource(res.typ, res.value)
	}

	var hooks []func(*Manager)

	for _, f := range b.bundles {
		bund := f(m)
		m.bundles = append(m.bundles, bund)
		hooks = append(hooks, bund.postInitHooks...)
	}

	for _, bundle := range m.bundles {
		for _, res := range bundle.resources {
			m.addResource(res.typ, res.value)
		}
		for id, factory := range bundle.prototypes {
			if _, ok := m.prototypes[id]; ok {
				panic("hardlight: prototype " + id + " registered twice")
			}
			m.prototypes[id] = factory
		}
	}

	if err := m.build(); err != nil {
		panic("hardlight: failed to build systems: " + err.Error())
	}

	for _, hook := range hooks {
		hook(m)
	}

	return m
}
