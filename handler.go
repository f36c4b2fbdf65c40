package hardlight

import (
	"reflect"
)

// handlerMeta holds metadata for a registered handler type.
type handlerMeta struct {
	meta *SystemMeta

	// events maps an event type to the method index on *System
	events map[reflect.Type]int
}

// newHandlerMeta scans the handler's single-argument methods.
// The method name does not matter, only the signature:
//
//	func (h *DeedStartup) HandleStartup(ev hardlight.ComponentStartup)
func newHandlerMeta(meta *SystemMeta) *handlerMeta {
	t := reflect.PointerTo(meta.Type)
	events := make(map[reflect.Type]int)
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		// Receiver plus one argument, no results
		if method.Type.NumIn() != 2 || method.Type.NumOut() != 0 {
			continue
		}
		events[method.Type.In(1)] = i
	}
	return &handlerMeta{meta: meta, events: events}
}

// dispatchTo runs every entity-scoped handler listening for the event's type
// whose filter matches e.
func (m *Manager) dispatchTo(e *Entity, event any) {
	eventType := reflect.TypeOf(event)
	for _, hm := range m.handlers {
		if !hm.meta.EntityScoped {
			continue
		}
		idx, ok := hm.events[eventType]
		if !ok {
			continue
		}
		if e.deleted || !e.canRun(hm.meta) {
			continue
		}
		m.invokeHandler(hm, idx, e, event)
	}
}

// broadcast runs every handler without an *Entity field that listens for the
// event's type.
func (m *Manager) broadcast(event any) {
	eventType := reflect.TypeOf(event)
	for _, hm := range m.handlers {
		if hm.meta.EntityScoped {
			continue
		}
		idx, ok := hm.events[eventType]
		if !ok {
			continue
		}
		m.invokeHandler(hm, idx, nil, event)
	}
}

func (m *Manager) invokeHandler(hm *handlerMeta, idx int, e *Entity, event any) {
	inst := hm.meta.acquire()
	defer hm.meta.release(inst)

	if !injectSystem(hm.meta, inst, e, m) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			m.handleSystemPanic("handler", hm.meta.Name, r)
		}
	}()
	inst.Method(idx).Call([]reflect.Value{reflect.ValueOf(event)})
}
