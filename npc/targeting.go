// Package npc drives NPC ships: picking up guns on the ship and firing them
// at a target with a lead.
package npc

import (
	"log/slog"

	"github.com/NiaAranea/HardLight"
	"github.com/NiaAranea/HardLight/weapons"
	"github.com/go-gl/mathgl/mgl64"
)

// ShipTargeting makes a pilot fire its ship's cannons at a target.
type ShipTargeting struct {
	// Target is the point to shoot at, relative to an entity.
	Target hardlight.Coordinates

	// LeadingAccuracy in [0, 1] is how quickly the lead converges on the
	// target's real velocity.
	LeadingAccuracy float64

	// CurrentLeadingVelocity is the velocity currently assumed for the target.
	CurrentLeadingVelocity mgl64.Vec2

	Cannons []hardlight.Ref[weapons.Gun]
}

// Settings tunes ship gunnery.
type Settings struct {
	LeadingAccuracy float64
	WeaponTag       string
	ForwardDistance float64
}

// DefaultSettings returns the stock gunnery settings.
func DefaultSettings() Settings {
	return Settings{
		LeadingAccuracy: 0.999,
		WeaponTag:       "AIShipWeapon",
		ForwardDistance: 50,
	}
}

// NewBundle returns the ship targeting bundle.
func NewBundle(settings Settings) func(*hardlight.Manager) *hardlight.Bundle {
	return func(m *hardlight.Manager) *hardlight.Bundle {
		return hardlight.NewBundle("ship-targeting").
			Resource(&settings).
			Resource(NewTargeting(m, settings)).
			Loop(&TargetingLoop{}, 0, hardlight.Default)
	}
}

// Targeting assigns and clears ship targets.
type Targeting struct {
	m        *hardlight.Manager
	settings Settings
}

// NewTargeting creates a Targeting bound to the manager.
func NewTargeting(m *hardlight.Manager, settings Settings) *Targeting {
	return &Targeting{m: m, settings: settings}
}

// Target points the pilot's ship at coords. With checkGuns the cannon list is
// rebuilt from the tagged guns on the ship. It returns nil when the pilot is
// not aboard a grid.
func (t *Targeting) Target(pilot hardlight.EntityUID, coords hardlight.Coordinates, checkGuns bool) *ShipTargeting {
	e := t.m.Entity(pilot)
	if e == nil {
		return nil
	}
	ship := t.m.Transforms().Grid(pilot)
	if !hardlight.Has[hardlight.MapGrid](t.m.Entity(ship)) {
		return nil
	}

	comp := hardlight.Get[ShipTargeting](e)
	if comp == nil {
		comp = hardlight.Add(e, &ShipTargeting{LeadingAccuracy: t.settings.LeadingAccuracy})
	}
	comp.Target = coords

	if checkGuns {
		comp.Cannons = comp.Cannons[:0]
		for _, uid := range t.m.Lookup().GridEntities(ship) {
			ge := t.m.Entity(uid)
			if !hardlight.Has[weapons.Gun](ge) {
				continue
			}
			if hardlight.Get[hardlight.Tags](ge).HasTag(t.settings.WeaponTag) {
				comp.Cannons = append(comp.Cannons, hardlight.RefTo[weapons.Gun](uid))
			}
		}
	}
	return comp
}

// Stop clears the pilot's target.
func (t *Targeting) Stop(pilot hardlight.EntityUID) {
	hardlight.Remove[ShipTargeting](t.m.Entity(pilot))
}

// TargetingLoop updates the lead on each pilot's target and fires its cannons.
type TargetingLoop struct {
	Entity    *hardlight.Entity
	Manager   *hardlight.Manager
	Targeting *ShipTargeting `hl:"mut"`

	Guns     weapons.Guns          `hl:"res"`
	Settings *Settings             `hl:"res"`
	Timing   *hardlight.Timing     `hl:"res"`
	Xform    *hardlight.Transforms `hl:"res"`
	Log      *slog.Logger          `hl:"res,opt"`
}

// Run implements hardlight.Runnable.
func (s *TargetingLoop) Run() {
	comp := s.Targeting
	ship := s.Xform.Grid(s.Entity.UID())
	targetUID := comp.Target.Entity
	if !ship.Valid() || s.Manager.TerminatingOrDeleted(targetUID) {
		return
	}
	shipBody := hardlight.Get[hardlight.Physics](s.Manager.Entity(ship))
	if shipBody == nil {
		return
	}

	mapTarget := s.Xform.ToMapCoordinates(comp.Target)
	shipPos := s.Xform.MapCoordinates(ship)
	// Either side may be in transit between maps
	if mapTarget.MapID != shipPos.MapID {
		return
	}

	var targetVel mgl64.Vec2
	if grid := s.Xform.Grid(targetUID); grid.Valid() {
		targetVel = s.Xform.MapLinearVelocity(grid)
	}

	lead := LeadBlend(comp.LeadingAccuracy, s.Timing.FrameSeconds())
	comp.CurrentLeadingVelocity = lerp(comp.CurrentLeadingVelocity, targetVel, lead)
	relVel := comp.CurrentLeadingVelocity.Sub(s.Xform.MapLinearVelocity(ship))

	s.fireWeapons(shipPos.Position, mapTarget.Position, relVel)
}

func (s *TargetingLoop) fireWeapons(shipPos, targetPos, relVel mgl64.Vec2) {
	for _, ref := range s.Targeting.Cannons {
		_, gun := ref.Resolve(s.Manager)
		if gun == nil {
			continue
		}

		sol, ok := Solve(shipPos, targetPos, relVel, gun.ProjectileSpeed)
		if !ok {
			continue
		}

		// Guns fire straight ahead rather than at the aim point
		uid := ref.UID()
		coords := s.Xform.Coordinates(uid)
		rot := hardlight.Get[hardlight.Transform](s.Manager.Entity(uid)).LocalRotation
		forward := coords.Offset(hardlight.AngleToWorldVec(rot).Mul(s.Settings.ForwardDistance))
		if s.Guns.AttemptShoot(uid, uid, forward) && s.Log != nil {
			s.Log.Debug("ship gun fired", "sawmill", "ship-targeting", "gun", uid, "aim", sol.AimPoint, "hitTime", sol.HitTime)
		}
	}
}

func lerp(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}
