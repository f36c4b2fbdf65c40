package hardlight

// EntityWhitelist matches entities by component type name and tag.
// An empty whitelist matches nothing.
type EntityWhitelist struct {
	// Components lists component type names, e.g. "ShuttleDeed".
	Components []string

	// Tags lists tags looked up on the Tags component.
	Tags []string

	// RequireAll makes every listed component and tag mandatory instead of
	// any one of them.
	RequireAll bool
}

// Empty reports whether the whitelist lists nothing.
func (w *EntityWhitelist) Empty() bool {
	return w == nil || (len(w.Components) == 0 && len(w.Tags) == 0)
}

// IsValid reports whether the entity matches the whitelist.
func (w *EntityWhitelist) IsValid(e *Entity) bool {
	if e == nil || w.Empty() {
		return false
	}

	tags := Get[Tags](e)
	if w.RequireAll {
		for _, name := range w.Components {
			id, ok := ComponentIDByName(name)
			if !ok || !e.mask.Has(id) {
				return false
			}
		}
		for _, tag := range w.Tags {
			if !tags.HasTag(tag) {
				return false
			}
		}
		return true
	}

	for _, name := range w.Components {
		if id, ok := ComponentIDByName(name); ok && e.mask.Has(id) {
			return true
		}
	}
	for _, tag := range w.Tags {
		if tags.HasTag(tag) {
			return true
		}
	}
	return false
}
