package hardlight

import (
	"context"
	"time"
)

// Scheduler runs the loop systems of a Manager. Loops run in stage order and,
// within a stage, in registration order.
type Scheduler struct {
	manager *Manager

	loops [stageCount][]*loopState
}

// loopState tracks the state of a single loop system.
// Times are game time, so a loop with a 10 minute interval fires after ten
// minutes of ticks regardless of wall clock.
type loopState struct {
	meta     *SystemMeta
	interval time.Duration
	lastRun  time.Duration
	nextRun  time.Duration
}

// ShouldRun checks if the loop should run at the given game time.
func (l *loopState) ShouldRun(now time.Duration) bool {
	if l.interval == 0 {
		return true
	}
	return now >= l.nextRun
}

// MarkRun updates the last run time and schedules the next run.
func (l *loopState) MarkRun(now time.Duration) {
	l.lastRun = now
	if l.interval > 0 {
		// Drift-free timing
		l.nextRun += l.interval
		if l.nextRun < now {
			// Catch up if we're behind
			l.nextRun = now + l.interval
		}
	}
}

func newScheduler(manager *Manager) *Scheduler {
	return &Scheduler{manager: manager}
}

// addLoop registers a loop with the scheduler.
func (s *Scheduler) addLoop(meta *SystemMeta, interval time.Duration) {
	s.loops[meta.Stage] = append(s.loops[meta.Stage], &loopState{
		meta:     meta,
		interval: interval,
		nextRun:  s.manager.timing.CurTime,
	})
}

// tick runs every due loop of every stage.
func (s *Scheduler) tick(now time.Duration) {
	for stage := Before; stage < stageCount; stage++ {
		for _, loop := range s.loops[stage] {
			if !loop.ShouldRun(now) {
				continue
			}
			s.runLoop(loop)
			loop.MarkRun(now)
		}
	}
}

// runLoop runs a loop once, or once per matching entity when it is entity scoped.
func (s *Scheduler) runLoop(loop *loopState) {
	m := s.manager
	meta := loop.meta

	if !meta.EntityScoped {
		s.execute(meta, nil)
		return
	}

	for _, e := range m.Query(meta.RequireMask, meta.ExcludeMask) {
		// An earlier iteration may have deleted it
		if e.deleted {
			continue
		}
		s.execute(meta, e)
	}
}

func (s *Scheduler) execute(meta *SystemMeta, e *Entity) {
	inst := meta.acquire()
	defer meta.release(inst)

	if !injectSystem(meta, inst, e, s.manager) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.manager.handleSystemPanic("loop", meta.Name, r)
		}
	}()
	inst.Interface().(Runnable).Run()
}

// Tick advances game time by frameTime and runs one tick: posted work first,
// then the loops by stage, then the queued deletions.
func (m *Manager) Tick(frameTime time.Duration) {
	m.drainPosted()

	m.timing.advance(frameTime)
	m.scheduler.tick(m.timing.CurTime)

	m.flushDeletions()
}

// Run ticks the manager at the given rate until ctx is cancelled.
// Each tick advances game time by exactly rate.
func (m *Manager) Run(ctx context.Context, rate time.Duration) error {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	m.log.Info("scheduler started", "rate", rate)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("scheduler stopped", "tick", m.timing.CurTick)
			return nil
		case <-ticker.C:
			m.Tick(rate)
		}
	}
}

// DefaultTickRate is used by Run when no rate is given (30 TPS).
const DefaultTickRate = time.Second / 30
