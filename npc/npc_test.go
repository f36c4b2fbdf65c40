package npc

import (
	"math"
	"testing"
	"time"

	"github.com/NiaAranea/HardLight"
	"github.com/NiaAranea/HardLight/weapons"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveStationaryTarget(t *testing.T) {
	sol, ok := Solve(mgl64.Vec2{0, 0}, mgl64.Vec2{30, 40}, mgl64.Vec2{}, 10)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec2{30, 40}, sol.AimPoint)
	assert.InDelta(t, 5.0, sol.HitTime, 1e-9)
}

func TestSolveLateralTooFast(t *testing.T) {
	_, ok := Solve(mgl64.Vec2{0, 0}, mgl64.Vec2{100, 0}, mgl64.Vec2{0, 25}, 20)
	assert.False(t, ok)
}

func TestSolveRecedingTooFast(t *testing.T) {
	_, ok := Solve(mgl64.Vec2{0, 0}, mgl64.Vec2{100, 0}, mgl64.Vec2{30, 0}, 20)
	assert.False(t, ok)
}

func TestSolveLeadsMovingTarget(t *testing.T) {
	// target 100 ahead, crossing at 6 with projectile speed 10: closing speed 8
	sol, ok := Solve(mgl64.Vec2{0, 0}, mgl64.Vec2{100, 0}, mgl64.Vec2{0, 6}, 10)
	require.True(t, ok)
	assert.InDelta(t, 12.5, sol.HitTime, 1e-9)
	assert.InDelta(t, 100, sol.AimPoint.X(), 1e-9)
	assert.InDelta(t, 75, sol.AimPoint.Y(), 1e-9)

	// approaching targets are hit sooner
	sol, ok = Solve(mgl64.Vec2{0, 0}, mgl64.Vec2{100, 0}, mgl64.Vec2{-10, 0}, 10)
	require.True(t, ok)
	assert.InDelta(t, 5, sol.HitTime, 1e-9)
	assert.InDelta(t, 50, sol.AimPoint.X(), 1e-9)
}

func TestSolveLateralAtProjectileSpeed(t *testing.T) {
	target := mgl64.Vec2{20.93, 88.10}
	rel := mgl64.Vec2{3.29, -1.25}
	dir := target.Normalize()
	lateral := rel.Sub(dir.Mul(rel.Dot(dir))).Len()

	for _, speed := range []float64{lateral, 3.490018688190105} {
		sol, ok := Solve(mgl64.Vec2{}, target, rel, speed)
		if !ok {
			continue
		}
		assert.False(t, math.IsNaN(sol.AimPoint.X()), "speed %v", speed)
		assert.False(t, math.IsNaN(sol.AimPoint.Y()), "speed %v", speed)
		assert.False(t, math.IsNaN(sol.HitTime), "speed %v", speed)
	}
}

func TestSolveOnTopOfTarget(t *testing.T) {
	sol, ok := Solve(mgl64.Vec2{5, 5}, mgl64.Vec2{5, 5}, mgl64.Vec2{}, 10)
	require.True(t, ok)
	assert.Equal(t, 0.0, sol.HitTime)
	assert.False(t, math.IsNaN(sol.AimPoint.X()))
}

func TestShortestAngleDistance(t *testing.T) {
	assert.InDelta(t, 0.5, ShortestAngleDistance(0, 0.5), 1e-9)
	assert.InDelta(t, -0.5, ShortestAngleDistance(0.5, 0), 1e-9)
	assert.InDelta(t, -0.2, ShortestAngleDistance(0.1, 2*math.Pi-0.1), 1e-9)
	assert.InDelta(t, 0.2, ShortestAngleDistance(2*math.Pi-0.1, 0.1), 1e-9)
	assert.InDelta(t, 0, ShortestAngleDistance(1, 1+4*math.Pi), 1e-9)
}

func TestLeadBlend(t *testing.T) {
	assert.InDelta(t, 0, LeadBlend(0.999, 0), 1e-12)
	assert.InDelta(t, 0.999, LeadBlend(0.999, 1), 1e-12)
	assert.InDelta(t, 1, LeadBlend(1, 0.5), 1e-12)
}

type fakeGuns struct {
	shots []hardlight.Coordinates
}

func (f *fakeGuns) AttemptShoot(_, _ hardlight.EntityUID, target hardlight.Coordinates) bool {
	f.shots = append(f.shots, target)
	return true
}

func (f *fakeGuns) ShootProjectile(hardlight.EntityUID, mgl64.Vec2, mgl64.Vec2, hardlight.EntityUID, hardlight.EntityUID, float64) {
}

type ship struct {
	m       *hardlight.Manager
	guns    *fakeGuns
	mapUID  hardlight.EntityUID
	grid    hardlight.EntityUID
	pilot   hardlight.EntityUID
	cannon  hardlight.EntityUID
	targets *Targeting
}

func newShip(t *testing.T) *ship {
	t.Helper()
	guns := &fakeGuns{}
	test := hardlight.NewBundle("test")
	hardlight.Provide[weapons.Guns](test, guns)

	m := hardlight.NewBuilder().
		Bundle(test.Build()).
		Bundle(NewBundle(DefaultSettings())).
		Init()

	mapUID, _ := m.CreateMap()
	grid := m.CreateGrid(mapUID, mgl64.Vec2{0, 0}, &hardlight.Physics{})
	on := func(pos mgl64.Vec2, comps ...any) hardlight.EntityUID {
		e, err := m.Spawn("", hardlight.Coordinates{Entity: grid, Position: pos}, comps...)
		require.NoError(t, err)
		return e.UID()
	}

	pilot := on(mgl64.Vec2{})
	cannon := on(mgl64.Vec2{0, 2}, &weapons.Gun{ProjectileSpeed: 20}, hardlight.NewTags("AIShipWeapon"))
	on(mgl64.Vec2{0, 3}, &weapons.Gun{ProjectileSpeed: 20})
	on(mgl64.Vec2{0, 4}, hardlight.NewTags("AIShipWeapon"))

	targets, ok := hardlight.Resource[*Targeting](m)
	require.True(t, ok)
	return &ship{m: m, guns: guns, mapUID: mapUID, grid: grid, pilot: pilot, cannon: cannon, targets: targets}
}

func (s *ship) enemy(t *testing.T, pos, vel mgl64.Vec2) hardlight.EntityUID {
	t.Helper()
	return s.m.CreateGrid(s.mapUID, pos, &hardlight.Physics{LinearVelocity: vel})
}

func TestTargetCollectsTaggedGuns(t *testing.T) {
	s := newShip(t)
	comp := s.targets.Target(s.pilot, hardlight.Coordinates{Entity: s.mapUID}, true)
	require.NotNil(t, comp)
	assert.Equal(t, 0.999, comp.LeadingAccuracy)
	require.Len(t, comp.Cannons, 1)
	assert.Equal(t, s.cannon, comp.Cannons[0].UID())

	again := s.targets.Target(s.pilot, hardlight.Coordinates{Entity: s.mapUID, Position: mgl64.Vec2{1, 1}}, false)
	assert.Same(t, comp, again)
	assert.Len(t, again.Cannons, 1)
	assert.Equal(t, mgl64.Vec2{1, 1}, again.Target.Position)
}

func TestTargetRequiresGrid(t *testing.T) {
	s := newShip(t)
	floating, err := s.m.Spawn("", hardlight.Coordinates{Entity: s.mapUID})
	require.NoError(t, err)

	assert.Nil(t, s.targets.Target(floating.UID(), hardlight.Coordinates{Entity: s.mapUID}, true))
	assert.False(t, hardlight.Has[ShipTargeting](floating))
}

func TestStop(t *testing.T) {
	s := newShip(t)
	s.targets.Target(s.pilot, hardlight.Coordinates{Entity: s.mapUID}, true)
	s.targets.Stop(s.pilot)
	assert.False(t, hardlight.Has[ShipTargeting](s.m.Entity(s.pilot)))

	assert.NotPanics(t, func() { s.targets.Stop(s.pilot) })
}

func TestLoopFiresForward(t *testing.T) {
	s := newShip(t)
	enemy := s.enemy(t, mgl64.Vec2{0, 100}, mgl64.Vec2{})
	s.targets.Target(s.pilot, hardlight.Coordinates{Entity: enemy}, true)

	s.m.Tick(time.Second / 30)

	require.Len(t, s.guns.shots, 1)
	// rotation 0 faces (0, -1), offset in the gun's own frame
	assert.Equal(t, s.grid, s.guns.shots[0].Entity)
	assert.InDelta(t, 0, s.guns.shots[0].Position.X(), 1e-9)
	assert.InDelta(t, 2-50, s.guns.shots[0].Position.Y(), 1e-9)
}

func TestLoopHoldsFireOnFastCrossingTarget(t *testing.T) {
	s := newShip(t)
	enemy := s.enemy(t, mgl64.Vec2{100, 0}, mgl64.Vec2{0, 500})
	comp := s.targets.Target(s.pilot, hardlight.Coordinates{Entity: enemy}, true)
	comp.LeadingAccuracy = 1

	s.m.Tick(time.Second / 30)

	assert.Equal(t, mgl64.Vec2{0, 500}, comp.CurrentLeadingVelocity)
	assert.Empty(t, s.guns.shots)
}

func TestLoopConvergesOnTargetVelocity(t *testing.T) {
	s := newShip(t)
	enemy := s.enemy(t, mgl64.Vec2{100, 0}, mgl64.Vec2{0, 10})
	comp := s.targets.Target(s.pilot, hardlight.Coordinates{Entity: enemy}, true)

	s.m.Tick(time.Second)
	assert.InDelta(t, 9.99, comp.CurrentLeadingVelocity.Y(), 1e-9)
}

func TestLoopLeadsDockedGridInMapFrame(t *testing.T) {
	s := newShip(t)
	carrier := s.enemy(t, mgl64.Vec2{100, 0}, mgl64.Vec2{})
	s.m.Transforms().SetLocalRotation(carrier, math.Pi/2)
	docked, err := s.m.Spawn("", hardlight.Coordinates{Entity: carrier},
		&hardlight.MapGrid{}, &hardlight.Physics{LinearVelocity: mgl64.Vec2{0, -10}})
	require.NoError(t, err)

	comp := s.targets.Target(s.pilot, hardlight.Coordinates{Entity: docked.UID()}, true)
	comp.LeadingAccuracy = 1
	s.m.Tick(time.Second / 30)

	assert.InDelta(t, 10, comp.CurrentLeadingVelocity.X(), 1e-9)
	assert.InDelta(t, 0, comp.CurrentLeadingVelocity.Y(), 1e-9)
}

func TestLoopSkipsTargetElsewhere(t *testing.T) {
	s := newShip(t)
	otherMap, _ := s.m.CreateMap()
	enemy := s.m.CreateGrid(otherMap, mgl64.Vec2{}, &hardlight.Physics{})
	s.targets.Target(s.pilot, hardlight.Coordinates{Entity: enemy}, true)
	s.m.Tick(time.Second / 30)
	assert.Empty(t, s.guns.shots)

	gone := s.enemy(t, mgl64.Vec2{0, 10}, mgl64.Vec2{})
	s.targets.Target(s.pilot, hardlight.Coordinates{Entity: gone}, false)
	s.m.Delete(gone)
	s.m.Tick(time.Second / 30)
	assert.Empty(t, s.guns.shots)
}
