package hardlight

import (
	"fmt"
	"reflect"
)

// SystemMeta holds pre-computed metadata about a system type.
// This is computed once at registration time and reused for all executions.
type SystemMeta struct {
	// Type is the reflect.Type of the system struct
	Type reflect.Type

	// Name is the type name for debugging
	Name string

	// RequireMask is the bitmask of required components
	RequireMask Bitmask

	// ExcludeMask is the bitmask of excluded components (Without[T])
	ExcludeMask Bitmask

	// Fields holds injection metadata for each field
	Fields []FieldMeta

	// Stage is the execution stage
	Stage Stage

	// EntityScoped is true when the system declares an *Entity field and
	// therefore runs once per matching entity.
	EntityScoped bool

	// Bundle is the bundle this system belongs to
	Bundle *Bundle

	// free holds zeroed system values ready for reuse. Dispatch can re-enter
	// the same system, so each run takes its own value.
	free []reflect.Value
}

// acquire returns a zeroed *System value for a single run.
func (meta *SystemMeta) acquire() reflect.Value {
	if n := len(meta.free); n > 0 {
		v := meta.free[n-1]
		meta.free = meta.free[:n-1]
		return v
	}
	return reflect.New(meta.Type)
}

// release zeroes v and returns it to the free list.
func (meta *SystemMeta) release(v reflect.Value) {
	zeroSystem(meta, v)
	meta.free = append(meta.free, v)
}

// FieldMeta holds metadata about a single injectable field.
type FieldMeta struct {
	// Offset is the field offset in the struct for unsafe injection
	Offset uintptr

	// Name is the field name for debugging
	Name string

	// Kind is the type of field (component, resource, etc.)
	Kind FieldKind

	// ComponentID is the ID of the component type (for component fields)
	ComponentID ComponentID

	// Type is the component type for component fields, and the declared
	// field type for resources and payload.
	Type reflect.Type

	// Optional indicates the field can be nil
	Optional bool

	// Mutable indicates the field has write access
	Mutable bool
}

var (
	entityPtrType  = reflect.TypeOf((*Entity)(nil))
	managerPtrType = reflect.TypeOf((*Manager)(nil))
)

// analyzeSystem analyzes a system type and returns its metadata.
func analyzeSystem(systemType reflect.Type, bundle *Bundle) (*SystemMeta, error) {
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if systemType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("system must be a struct, got %v", systemType.Kind())
	}

	meta := &SystemMeta{
		Type:   systemType,
		Name:   systemType.Name(),
		Bundle: bundle,
	}

	for i := 0; i < systemType.NumField(); i++ {
		field := systemType.Field(i)
		tag := parseTag(field.Tag.Get(tagName))

		fm := FieldMeta{
			Offset:   field.Offset,
			Name:     field.Name,
			Optional: tag.Optional,
			Mutable:  tag.Mutable,
		}

		switch {
		case field.Type == entityPtrType:
			if meta.EntityScoped {
				return nil, fmt.Errorf("system %s declares more than one *Entity field", meta.Name)
			}
			fm.Kind = KindEntity
			meta.EntityScoped = true

		case field.Type == managerPtrType:
			fm.Kind = KindManager

		case field.Type.Implements(phantomTypeInfoType):
			compType, isWithout, _ := getPhantomInfo(field.Type)
			id := registerComponentType(compType)
			fm.ComponentID = id
			fm.Type = compType
			if isWithout {
				fm.Kind = KindPhantomWithout
				meta.ExcludeMask.Set(id)
			} else {
				fm.Kind = KindPhantomWith
				meta.RequireMask.Set(id)
			}

		case tag.Resource:
			fm.Kind = KindResource
			fm.Type = field.Type

		case field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct:
			compType := field.Type.Elem()
			id := registerComponentType(compType)
			fm.Kind = KindComponent
			fm.ComponentID = id
			fm.Type = compType
			if !tag.Optional {
				meta.RequireMask.Set(id)
			}

		default:
			fm.Kind = KindPayload
			fm.Type = field.Type
		}

		meta.Fields = append(meta.Fields, fm)
	}

	if !meta.EntityScoped {
		for _, f := range meta.Fields {
			if f.Kind == KindComponent || f.Kind == KindPhantomWith || f.Kind == KindPhantomWithout {
				return nil, fmt.Errorf("system %s uses component field %s without an *Entity field", meta.Name, f.Name)
			}
		}
	}

	return meta, nil
}
