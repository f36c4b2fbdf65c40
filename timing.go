package hardlight

import "time"

// Timing is the game clock. It is registered as a resource on every manager,
// so systems read it with a field tagged `hl:"res"`:
//
//	Timing *hardlight.Timing `hl:"res"`
type Timing struct {
	// CurTime is the game time elapsed since the manager was created.
	CurTime time.Duration

	// FrameTime is the duration of the current tick.
	FrameTime time.Duration

	// CurTick counts ticks, starting at 1 for the first tick.
	CurTick uint64
}

// FrameSeconds returns FrameTime in seconds.
func (t *Timing) FrameSeconds() float64 {
	return t.FrameTime.Seconds()
}

func (t *Timing) advance(frameTime time.Duration) {
	t.CurTick++
	t.FrameTime = frameTime
	t.CurTime += frameTime
}
