package hardlight

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type beforeLoop struct {
	Rec *recorder `hl:"res"`
}

func (s *beforeLoop) Run() { s.Rec.add("before") }

type defaultLoop struct {
	Rec *recorder `hl:"res"`
}

func (s *defaultLoop) Run() { s.Rec.add("default") }

type afterLoop struct {
	Rec *recorder `hl:"res"`
}

func (s *afterLoop) Run() { s.Rec.add("after") }

func TestStagesRunInOrder(t *testing.T) {
	bundle := NewBundle("test").
		Loop(&afterLoop{}, 0, After).
		Loop(&defaultLoop{}, 0, Default).
		Loop(&beforeLoop{}, 0, Before)
	m, rec := newTestManager(t, bundle)

	m.Post(func(*Manager) { rec.add("posted") })
	m.Tick(time.Second)

	assert.Equal(t, []string{"posted", "before", "default", "after"}, rec.log)
	assert.Equal(t, uint64(1), m.Timing().CurTick)
	assert.Equal(t, time.Second, m.Timing().CurTime)
	assert.Equal(t, 1.0, m.Timing().FrameSeconds())
}

func TestLoopInterval(t *testing.T) {
	m, rec := newTestManager(t, NewBundle("test").Loop(&defaultLoop{}, 100*time.Millisecond, Default))

	for range 7 {
		m.Tick(33 * time.Millisecond)
	}
	// Runs at 33ms, 132ms and 231ms
	assert.Len(t, rec.log, 3)
}

type regen struct {
	Entity *Entity
	Health *Health   `hl:"mut"`
	Rec    *recorder `hl:"res"`
	_      Without[Frozen]
}

func (s *regen) Run() {
	s.Health.HP++
	s.Rec.add(s.Entity.UID().String())
	if s.Health.HP > 1 {
		s.Entity.Manager().QueueDel(s.Entity.UID())
	}
}

func TestEntityScopedLoop(t *testing.T) {
	m, rec := newTestManager(t, NewBundle("test").Loop(&regen{}, 0, Default))

	b := mustSpawn(t, m, "", Coordinates{}, &Health{HP: 1})
	a := mustSpawn(t, m, "", Coordinates{}, &Health{})
	mustSpawn(t, m, "", Coordinates{}, &Health{}, &Frozen{})
	mustSpawn(t, m, "", Coordinates{})

	m.Tick(0)
	assert.Equal(t, []string{b.UID().String(), a.UID().String()}, rec.log)
	assert.False(t, m.Exists(b.UID()))
	assert.Equal(t, 1, Get[Health](a).HP)
}

type panicLoop struct{}

func (panicLoop) Run() { panic("boom") }

func TestLoopPanicRecovered(t *testing.T) {
	bundle := NewBundle("test").
		Loop(&panicLoop{}, 0, Default).
		Loop(&afterLoop{}, 0, After)
	m, rec := newTestManager(t, bundle)

	assert.NotPanics(t, func() { m.Tick(0) })
	assert.Equal(t, []string{"after"}, rec.log)
}

func TestPostFromGoroutines(t *testing.T) {
	m, rec := newTestManager(t, nil)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Post(func(*Manager) { rec.add("x") })
		}()
	}
	wg.Wait()

	m.Tick(0)
	assert.Len(t, rec.log, 10)
}
