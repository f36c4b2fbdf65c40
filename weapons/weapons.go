// Package weapons holds the gun and projectile primitives the ship and power
// systems fire through.
package weapons

import (
	"log/slog"
	"math"
	"time"

	"github.com/NiaAranea/HardLight"
	"github.com/go-gl/mathgl/mgl64"
)

// Gun is a ranged weapon.
type Gun struct {
	// ProjectilePrototype is spawned for every shot.
	ProjectilePrototype string

	// ProjectileSpeed in units per second.
	ProjectileSpeed float64

	// FireRate in shots per second. Zero means no cooldown.
	FireRate float64

	// NextFire is the game time the gun may fire again.
	NextFire time.Duration
}

// Projectile is a fired round in flight.
type Projectile struct {
	Shooter hardlight.EntityUID
	Weapon  hardlight.EntityUID
}

// HitscanRaycastFiredEvent is raised at a hitscan entity after its ray was cast.
// It is passed by pointer so handlers observe the same cancellation.
type HitscanRaycastFiredEvent struct {
	Gun       hardlight.EntityUID
	HitEntity hardlight.EntityUID
	Shooter   hardlight.EntityUID
	Canceled  bool
}

// GunShotEvent is raised at a gun each time it fires a projectile.
type GunShotEvent struct {
	User       hardlight.EntityUID
	Projectile hardlight.EntityUID
}

// Guns fires weapons.
type Guns interface {
	// AttemptShoot fires the gun at the target coordinates if its cooldown
	// allows. It reports whether a shot was fired.
	AttemptShoot(user, gun hardlight.EntityUID, target hardlight.Coordinates) bool

	// ShootProjectile launches an already spawned projectile along direction.
	ShootProjectile(projectile hardlight.EntityUID, direction, gunVelocity mgl64.Vec2, gun, user hardlight.EntityUID, speed float64)
}

// Gunnery is the Guns implementation backed by the entity manager.
type Gunnery struct {
	m   *hardlight.Manager
	log *slog.Logger
}

// NewGunnery creates a Gunnery bound to the manager.
func NewGunnery(m *hardlight.Manager) *Gunnery {
	return &Gunnery{m: m, log: m.Logger().With("sawmill", "gun")}
}

// AttemptShoot implements Guns.
func (g *Gunnery) AttemptShoot(user, gun hardlight.EntityUID, target hardlight.Coordinates) bool {
	e := g.m.Entity(gun)
	comp := hardlight.Get[Gun](e)
	if comp == nil || g.m.TerminatingOrDeleted(gun) {
		return false
	}

	now := g.m.Timing().CurTime
	if now < comp.NextFire {
		return false
	}
	if comp.FireRate > 0 {
		comp.NextFire = now + time.Duration(float64(time.Second)/comp.FireRate)
	}

	xforms := g.m.Transforms()
	from := xforms.MapCoordinates(gun)
	to := xforms.ToMapCoordinates(target)
	if from.MapID == hardlight.NullMap || from.MapID != to.MapID {
		return false
	}

	proj, err := g.m.Spawn(comp.ProjectilePrototype, hardlight.Coordinates{Entity: xforms.MapUID(gun), Position: from.Position})
	if err != nil {
		g.log.Warn("failed to spawn projectile", "gun", gun, "prototype", comp.ProjectilePrototype, "err", err)
		return false
	}

	var gunVel mgl64.Vec2
	if grid := xforms.Grid(gun); grid.Valid() {
		if body := hardlight.Get[hardlight.Physics](g.m.Entity(grid)); body != nil {
			gunVel = body.LinearVelocity
		}
	}

	g.ShootProjectile(proj.UID(), to.Position.Sub(from.Position), gunVel, gun, user, comp.ProjectileSpeed)
	e.Dispatch(GunShotEvent{User: user, Projectile: proj.UID()})
	return true
}

// ShootProjectile implements Guns.
func (g *Gunnery) ShootProjectile(projectile hardlight.EntityUID, direction, gunVelocity mgl64.Vec2, gun, user hardlight.EntityUID, speed float64) {
	e := g.m.Entity(projectile)
	if e == nil {
		return
	}

	var dir mgl64.Vec2
	if direction.Len() > 0 {
		dir = direction.Normalize()
	}

	body := hardlight.Ensure[hardlight.Physics](e)
	body.LinearVelocity = dir.Mul(speed).Add(gunVelocity)

	proj := hardlight.Ensure[Projectile](e)
	proj.Shooter = user
	proj.Weapon = gun

	// Rotation 0 faces (0, -1)
	if dir.Len() > 0 {
		g.m.Transforms().SetLocalRotation(projectile, math.Atan2(dir.X(), -dir.Y()))
	}
}

var _ Guns = (*Gunnery)(nil)
