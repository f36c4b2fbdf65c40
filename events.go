package hardlight

// RoundRestartCleanupEvent is broadcast when the round ends and per-round
// state must be dropped.
type RoundRestartCleanupEvent struct{}
