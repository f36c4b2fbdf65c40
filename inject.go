package hardlight

import (
	"reflect"
	"unsafe"
)

// injectSystem fills the fields of inst, a *System value, for the given entity.
// e is nil for systems that are not entity scoped. It reports false when a
// required component or resource is missing, in which case the run is skipped.
func injectSystem(meta *SystemMeta, inst reflect.Value, e *Entity, m *Manager) bool {
	base := inst.Pointer()

	for i := range meta.Fields {
		field := &meta.Fields[i]

		switch field.Kind {
		case KindEntity:
			if e == nil {
				return false
			}
			setFieldPtr(base, field.Offset, unsafe.Pointer(e))

		case KindManager:
			setFieldPtr(base, field.Offset, unsafe.Pointer(m))

		case KindComponent:
			ptr := e.components[field.ComponentID]
			if ptr == nil && !field.Optional {
				return false // Required component missing
			}
			setFieldPtr(base, field.Offset, ptr)

		case KindResource:
			res, ok := m.resource(field.Type)
			if !ok {
				if field.Optional {
					continue
				}
				return false
			}
			reflect.NewAt(field.Type, unsafe.Pointer(base+field.Offset)).Elem().Set(res)

		case KindPhantomWith, KindPhantomWithout:
			// Filtering already done from the masks
			continue

		case KindPayload:
			zeroField(base, field)
		}
	}

	return true
}

// zeroSystem clears every injected field so nothing leaks between runs.
func zeroSystem(meta *SystemMeta, inst reflect.Value) {
	base := inst.Pointer()

	for i := range meta.Fields {
		field := &meta.Fields[i]

		switch field.Kind {
		case KindEntity, KindManager, KindComponent:
			setFieldPtr(base, field.Offset, nil)
		case KindResource, KindPayload:
			zeroField(base, field)
		}
	}
}

// setFieldPtr sets a pointer field at the given offset.
func setFieldPtr(base uintptr, offset uintptr, value unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Pointer(base + offset)) = value
}

// zeroField zeros a field based on its declared type.
func zeroField(base uintptr, field *FieldMeta) {
	if field.Type == nil {
		return
	}
	v := reflect.NewAt(field.Type, unsafe.Pointer(base+field.Offset)).Elem()
	v.Set(reflect.Zero(field.Type))
}
