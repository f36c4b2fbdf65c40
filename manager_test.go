package hardlight

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmask(t *testing.T) {
	var m Bitmask
	assert.True(t, m.IsZero())

	m.Set(3)
	m.Set(130)
	assert.True(t, m.Has(3))
	assert.True(t, m.Has(130))
	assert.False(t, m.Has(4))
	assert.Equal(t, 2, m.Count())

	var req, excl Bitmask
	req.Set(3)
	excl.Set(7)
	assert.True(t, m.Matches(req, excl))
	m.Set(7)
	assert.False(t, m.Matches(req, excl))

	m.Clear(3)
	assert.False(t, m.Matches(req, Bitmask{}))
}

func TestComponentLifecycle(t *testing.T) {
	m, _ := newTestManager(t, nil)
	e := mustSpawn(t, m, "", Coordinates{})

	assert.Nil(t, Get[Health](e))
	h := Add(e, &Health{HP: 5})
	assert.Same(t, h, Get[Health](e))
	assert.True(t, Has[Health](e))
	assert.Same(t, h, Ensure[Health](e))

	assert.True(t, Remove[Health](e))
	assert.False(t, Remove[Health](e))
	assert.False(t, Has[Health](e))

	assert.NotNil(t, Ensure[Frozen](e))
	assert.True(t, Has[Frozen](e))
	assert.Contains(t, e.String(), "Frozen")
}

func TestAttachDetachHooks(t *testing.T) {
	m, _ := newTestManager(t, nil)
	e := mustSpawn(t, m, "", Coordinates{})

	hook := Add(e, &Hooked{})
	assert.Equal(t, 1, hook.attached)

	Remove[Hooked](e)
	assert.Equal(t, 1, hook.detached)

	spawned := &Hooked{}
	e2 := mustSpawn(t, m, "", Coordinates{}, spawned)
	assert.Equal(t, 1, spawned.attached)
	m.Delete(e2.UID())
	assert.Equal(t, 1, spawned.detached)
}

type startupLog struct {
	Entity *Entity
	Rec    *recorder `hl:"res"`
}

func (s *startupLog) HandleStartup(ev ComponentStartup) {
	s.Rec.add(s.Entity.UID().String() + ":" + ev.ComponentType.Name())
}

func (s *startupLog) HandleShutdown(ev ComponentShutdown) {
	s.Rec.add(s.Entity.UID().String() + ":-" + ev.ComponentType.Name())
}

func TestSpawnPrototype(t *testing.T) {
	bundle := NewBundle("test").
		Prototype("crate", func() []any {
			return []any{&Health{HP: 10}, NewTags("cargo")}
		}).
		Handler(&startupLog{})
	m, rec := newTestManager(t, bundle)

	_, err := m.Spawn("missing", Coordinates{})
	assert.ErrorContains(t, err, "unknown prototype")

	e := mustSpawn(t, m, "crate", Coordinates{}, &Health{HP: 3})
	assert.Equal(t, 3, Get[Health](e).HP)
	assert.True(t, Get[Tags](e).HasTag("cargo"))
	assert.Equal(t, "crate", e.Prototype())
	require.NotNil(t, Get[MetaData](e))
	assert.Equal(t, "crate", Get[MetaData](e).Prototype)

	uid := e.UID().String()
	assert.Equal(t, []string{
		uid + ":Transform",
		uid + ":MetaData",
		uid + ":Health",
		uid + ":Tags",
	}, rec.log)

	rec.log = nil
	Remove[Tags](e)
	assert.Equal(t, []string{uid + ":-Tags"}, rec.log)
}

func TestDuplicatePrototypePanics(t *testing.T) {
	proto := func() []any { return nil }
	assert.Panics(t, func() {
		NewBuilder().
			Logger(quietLogger()).
			Bundle(NewBundle("a").Prototype("x", proto).Build()).
			Bundle(NewBundle("b").Prototype("x", proto).Build()).
			Init()
	})
}

type terminatingLog struct {
	Entity *Entity
	Rec    *recorder `hl:"res"`
}

func (s *terminatingLog) HandleTerminating(ev EntityTerminating) {
	s.Rec.add(ev.Entity.String())
}

func TestQueueDelCascades(t *testing.T) {
	m, rec := newTestManager(t, NewBundle("test").Handler(&terminatingLog{}))

	parent := mustSpawn(t, m, "", Coordinates{})
	child := mustSpawn(t, m, "", Coordinates{Entity: parent.UID()})
	other := mustSpawn(t, m, "", Coordinates{})

	m.QueueDel(parent.UID())
	m.QueueDel(parent.UID())
	m.QueueDel(Invalid)
	assert.True(t, m.Exists(parent.UID()))
	assert.False(t, m.TerminatingOrDeleted(parent.UID()))

	m.Tick(0)
	assert.False(t, m.Exists(parent.UID()))
	assert.False(t, m.Exists(child.UID()))
	assert.True(t, m.Exists(other.UID()))
	assert.True(t, parent.Deleted())
	assert.True(t, m.TerminatingOrDeleted(child.UID()))
	assert.Equal(t, []string{parent.UID().String(), child.UID().String()}, rec.log)

	// Queueing a deleted entity is a no-op
	m.QueueDel(parent.UID())
	m.Tick(0)
	assert.Len(t, rec.log, 2)
}

func TestQueryOrderAndFilter(t *testing.T) {
	m, _ := newTestManager(t, nil)
	a := mustSpawn(t, m, "", Coordinates{}, &Health{})
	mustSpawn(t, m, "", Coordinates{})
	c := mustSpawn(t, m, "", Coordinates{}, &Health{}, &Frozen{})
	d := mustSpawn(t, m, "", Coordinates{}, &Health{})

	all := EntitiesWith[Health](m)
	require.Len(t, all, 3)
	assert.Equal(t, []EntityUID{a.UID(), c.UID(), d.UID()}, []EntityUID{all[0].UID(), all[1].UID(), all[2].UID()})

	req := MaskOf(TypeOf[Health]())
	excl := MaskOf(reflect.TypeOf(Frozen{}))
	got := m.Query(req, excl)
	require.Len(t, got, 2)
	assert.Equal(t, a.UID(), got[0].UID())
	assert.Equal(t, d.UID(), got[1].UID())
}

type greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

func TestResources(t *testing.T) {
	m := NewBuilder().Logger(quietLogger()).Resource(english{}).Init()

	g, ok := Resource[greeter](m)
	require.True(t, ok)
	assert.Equal(t, "hello", g.Greet())

	timing, ok := Resource[*Timing](m)
	require.True(t, ok)
	assert.Same(t, m.Timing(), timing)

	_, ok = Resource[*recorder](m)
	assert.False(t, ok)
}
