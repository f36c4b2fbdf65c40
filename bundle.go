package hardlight

import (
	"reflect"
	"time"
)

// Bundle groups related systems, handlers, prototypes and resources together.
// Each gameplay feature ships one bundle and the Builder combines them.
type Bundle struct {
	name string

	handlers []any
	loops    []loopRegistration

	// resources holds bundle-level resources (registered with the manager)
	resources []resourceRegistration

	prototypes map[string]PrototypeFactory

	postInitHooks []func(*Manager)

	handlerMeta []*SystemMeta
	loopMeta    []*SystemMeta
}

type loopRegistration struct {
	system   Runnable
	interval time.Duration
	stage    Stage
}

type resourceRegistration struct {
	typ   reflect.Type
	value reflect.Value
}

// NewBundle creates a new bundle with the given name.
func NewBundle(name string) *Bundle {
	return &Bundle{
		name:       name,
		prototypes: make(map[string]PrototypeFactory),
	}
}

// Name returns the bundle name.
func (b *Bundle) Name() string {
	return b.name
}

// Resource registers a resource keyed by its dynamic type. Systems receive it
// through a field of exactly that type tagged `hl:"res"`.
func (b *Bundle) Resource(res any) *Bundle {
	b.resources = append(b.resources, resourceRegistration{
		typ:   reflect.TypeOf(res),
		value: reflect.ValueOf(res),
	})
	return b
}

// Provide registers res under the type T, which is usually an interface.
func Provide[T any](b *Bundle, res T) *Bundle {
	t := TypeOf[T]()
	b.resources = append(b.resources, resourceRegistration{
		typ:   t,
		value: reflect.ValueOf(&res).Elem(),
	})
	return b
}

// Prototype registers an entity prototype spawned through Manager.Spawn.
func (b *Bundle) Prototype(id string, factory PrototypeFactory) *Bundle {
	b.prototypes[id] = factory
	return b
}

// PostInit registers a hook that runs once the manager is fully built.
func (b *Bundle) PostInit(hook func(*Manager)) *Bundle {
	b.postInitHooks = append(b.postInitHooks, hook)
	return b
}

// Build returns a callback function that returns this bundle.
//
//	mngr := hardlight.NewBuilder().
//	    Bundle(deed.NewBundle(deed.DefaultSettings()).Build()).
//	    Init()
func (b *Bundle) Build() func(*Manager) *Bundle {
	return func(*Manager) *Bundle {
		return b
	}
}

// Handler registers a handler for this bundle.
// Handlers are structs whose single-argument methods receive events of the
// argument's type, e.g. func (h *Zap) HandleZap(ev *ZapEvent).
func (b *Bundle) Handler(h any) *Bundle {
	b.handlers = append(b.handlers, h)
	return b
}

// Loop registers a loop system that runs at fixed intervals.
// Interval of 0 means the loop runs every tick.
func (b *Bundle) Loop(sys Runnable, interval time.Duration, stage Stage) *Bundle {
	b.loops = append(b.loops, loopRegistration{
		system:   sys,
		interval: interval,
		stage:    stage,
	})
	return b
}

// build analyzes all systems and computes metadata.
func (b *Bundle) build() error {
	for _, h := range b.handlers {
		meta, err := analyzeSystem(reflect.TypeOf(h), b)
		if err != nil {
			return err
		}
		b.handlerMeta = append(b.handlerMeta, meta)
	}

	for _, reg := range b.loops {
		meta, err := analyzeSystem(reflect.TypeOf(reg.system), b)
		if err != nil {
			return err
		}
		meta.Stage = reg.stage
		b.loopMeta = append(b.loopMeta, meta)
	}

	return nil
}
