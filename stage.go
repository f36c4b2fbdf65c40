package hardlight

// Stage orders loop execution within a tick: Before → Default → After.
type Stage int

const (
	// Before runs first. Use for input relays and bookkeeping that other
	// systems read during the same tick.
	Before Stage = iota

	// Default runs second and holds most gameplay systems: targeting,
	// ownership polling, powers.
	Default

	// After runs last. Use for expiry sweeps and network state updates.
	After

	stageCount
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case Before:
		return "Before"
	case Default:
		return "Default"
	case After:
		return "After"
	default:
		return "Unknown"
	}
}
