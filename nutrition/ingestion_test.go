package nutrition

import (
	"testing"

	"github.com/NiaAranea/HardLight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helmet blocks eating while worn.
type Helmet struct{}

type helmetBlocks struct {
	Entity *hardlight.Entity
	_      hardlight.With[Helmet]
}

func (h *helmetBlocks) HandleAttempt(ev *IngestionAttemptEvent) {
	ev.Cancel()
	ev.Blocker = h.Entity.UID()
}

// Cake survives its last bite.
type Cake struct{}

type cakeSurvives struct {
	Entity *hardlight.Entity
	_      hardlight.With[Cake]
}

func (c *cakeSurvives) HandleBeforeEaten(ev *BeforeFullyEatenEvent) {
	ev.Cancel()
}

type eaten struct {
	Entity *hardlight.Entity
	_      hardlight.With[Food]
	Log    *[]AfterFullyEatenEvent `hl:"res"`
}

func (e *eaten) HandleAfterEaten(ev AfterFullyEatenEvent) {
	*e.Log = append(*e.Log, ev)
}

func newWorld(t *testing.T) (*hardlight.Manager, *[]AfterFullyEatenEvent) {
	t.Helper()
	log := &[]AfterFullyEatenEvent{}
	m := hardlight.NewBuilder().
		Resource(log).
		Bundle(hardlight.NewBundle("test").
			Handler(&helmetBlocks{}).
			Handler(&cakeSurvives{}).
			Handler(&eaten{}).
			Build()).
		Init()
	return m, log
}

func spawn(t *testing.T, m *hardlight.Manager, comps ...any) hardlight.EntityUID {
	t.Helper()
	e, err := m.Spawn("", hardlight.Coordinates{}, comps...)
	require.NoError(t, err)
	return e.UID()
}

func TestEatInBites(t *testing.T) {
	m, log := newWorld(t)
	eater := spawn(t, m)
	food := spawn(t, m, &Food{Content: NewSolution(map[string]float64{"Nutriment": 6, "Sugar": 4}), BiteSize: 5})

	require.True(t, Eat(m, eater, eater, food))
	assert.InDelta(t, 5, hardlight.Get[Food](m.Entity(food)).Content.Volume(), 1e-9)
	assert.Empty(t, *log)

	require.True(t, Eat(m, eater, eater, food))
	require.Len(t, *log, 1)
	assert.Equal(t, eater, (*log)[0].User)

	m.Tick(0)
	assert.False(t, m.Exists(food))
}

func TestEatBlocked(t *testing.T) {
	m, _ := newWorld(t)
	eater := spawn(t, m, &Helmet{})
	food := spawn(t, m, &Food{Content: NewSolution(map[string]float64{"Nutriment": 1})})

	assert.False(t, Eat(m, eater, eater, food))
	assert.InDelta(t, 1, hardlight.Get[Food](m.Entity(food)).Content.Volume(), 1e-9)
}

func TestFinishCancelled(t *testing.T) {
	m, log := newWorld(t)
	feeder := spawn(t, m)
	eater := spawn(t, m)
	food := spawn(t, m, &Food{Content: NewSolution(map[string]float64{"Nutriment": 1})}, &Cake{})

	require.True(t, Eat(m, feeder, eater, food))
	m.Tick(0)
	assert.True(t, m.Exists(food))
	assert.Empty(t, *log)
}

func TestSolutionSplit(t *testing.T) {
	s := NewSolution(map[string]float64{"A": 3, "B": 1})
	out := s.Split(2)
	assert.InDelta(t, 1.5, out.Reagents["A"], 1e-9)
	assert.InDelta(t, 0.5, out.Reagents["B"], 1e-9)
	assert.InDelta(t, 2, s.Volume(), 1e-9)

	rest := s.Split(10)
	assert.InDelta(t, 2, rest.Volume(), 1e-9)
	assert.Empty(t, s.Reagents)
	assert.Equal(t, 0.0, s.Split(1).Volume())
}
