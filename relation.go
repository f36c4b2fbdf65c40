package hardlight

// Ref is a reference to another entity that is expected to carry component T.
// It stores only the uid, so a deleted target simply stops resolving.
//
// Usage:
//
//	type ShipTargeting struct {
//	    Cannons []hardlight.Ref[weapons.Gun]
//	}
type Ref[T any] struct {
	uid EntityUID
}

// RefTo returns a reference to the entity.
func RefTo[T any](uid EntityUID) Ref[T] {
	return Ref[T]{uid: uid}
}

// UID returns the referenced uid.
func (r Ref[T]) UID() EntityUID {
	return r.uid
}

// Resolve returns the target and its component, or nils if the target is gone,
// terminating, or lacks T.
func (r Ref[T]) Resolve(m *Manager) (*Entity, *T) {
	e := m.Entity(r.uid)
	if e == nil || e.terminating {
		return nil, nil
	}
	c := Get[T](e)
	if c == nil {
		return nil, nil
	}
	return e, c
}

// Valid reports whether the target exists and has the required component.
func (r Ref[T]) Valid(m *Manager) bool {
	_, c := r.Resolve(m)
	return c != nil
}
