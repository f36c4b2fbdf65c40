package hardlight

import (
	"reflect"
)

// With is a phantom type that requires a component for the system to run.
// The component is not injected; it only narrows which entities match.
//
// Usage:
//
//	type DeedPoll struct {
//	    Entity *hardlight.Entity
//	    _      hardlight.With[Shuttle]
//	}
type With[T any] struct{}

// Without is a phantom type that skips entities carrying the component.
type Without[T any] struct{}

// PhantomTypeInfo provides component type information for phantom types.
type PhantomTypeInfo interface {
	ComponentType() reflect.Type
	IsWithout() bool
}

// ComponentType implements PhantomTypeInfo for With[T].
func (With[T]) ComponentType() reflect.Type {
	return TypeOf[T]()
}

// IsWithout implements PhantomTypeInfo for With[T].
func (With[T]) IsWithout() bool {
	return false
}

// ComponentType implements PhantomTypeInfo for Without[T].
func (Without[T]) ComponentType() reflect.Type {
	return TypeOf[T]()
}

// IsWithout implements PhantomTypeInfo for Without[T].
func (Without[T]) IsWithout() bool {
	return true
}

var phantomTypeInfoType = reflect.TypeOf((*PhantomTypeInfo)(nil)).Elem()

// getPhantomInfo extracts component type and kind from a phantom type.
func getPhantomInfo(t reflect.Type) (compType reflect.Type, isWithout bool, ok bool) {
	if !t.Implements(phantomTypeInfoType) {
		return nil, false, false
	}
	v := reflect.New(t).Elem().Interface().(PhantomTypeInfo)
	return v.ComponentType(), v.IsWithout(), true
}
