package psionics

import (
	"github.com/NiaAranea/HardLight"
	"github.com/NiaAranea/HardLight/weapons"
	"github.com/go-gl/mathgl/mgl64"
)

// ZapPower is the name the noospheric zap is logged under.
const ZapPower = "noospheric zap"

// ZapSettings tunes the noospheric zap.
type ZapSettings struct {
	Projectile string
	Speed      float64
}

// DefaultZapSettings fires a tesla bolt at 20 units per second.
func DefaultZapSettings() ZapSettings {
	return ZapSettings{Projectile: "TeslaGunBullet", Speed: 20}
}

// NoosphericZapPowerActionEvent is raised when a performer zaps a target.
// Handlers set Handled once the power went off.
type NoosphericZapPowerActionEvent struct {
	Performer hardlight.EntityUID
	Target    hardlight.EntityUID
	Handled   bool
}

// NewBundle returns the psionics bundle. Abilities defaults to an AbilityLog
// unless the builder already provides one.
func NewBundle(settings ZapSettings) func(*hardlight.Manager) *hardlight.Bundle {
	return func(m *hardlight.Manager) *hardlight.Bundle {
		b := hardlight.NewBundle("psionics").
			Resource(&settings).
			Handler(&NoosphericZap{})
		if _, ok := hardlight.Resource[Abilities](m); !ok {
			hardlight.Provide[Abilities](b, NewAbilityLog(m))
		}
		return b
	}
}

// NoosphericZap fires a tesla bolt from the performer at the target.
type NoosphericZap struct {
	Manager *hardlight.Manager

	Abilities Abilities             `hl:"res"`
	Guns      weapons.Guns          `hl:"res"`
	Settings  *ZapSettings          `hl:"res"`
	Xform     *hardlight.Transforms `hl:"res"`
}

// HandleZap handles the zap action.
func (s *NoosphericZap) HandleZap(ev *NoosphericZapPowerActionEvent) {
	if ev.Handled {
		return
	}
	if !s.Abilities.OnAttemptPowerUse(ev.Performer, ZapPower) {
		return
	}

	from := s.Xform.Coordinates(ev.Performer)
	target := s.Xform.Coordinates(ev.Target)

	proj, err := s.Manager.Spawn(s.Settings.Projectile, from)
	if err != nil {
		s.Manager.Logger().Warn("zap projectile failed to spawn", "sawmill", "psionics", "err", err)
		return
	}
	hardlight.Ensure[weapons.Projectile](proj).Shooter = ev.Performer

	var vel mgl64.Vec2
	if body := hardlight.Get[hardlight.Physics](s.Manager.Entity(ev.Performer)); body != nil {
		vel = body.LinearVelocity
	}
	s.Guns.ShootProjectile(proj.UID(), target.Position.Sub(from.Position), vel, ev.Performer, ev.Performer, s.Settings.Speed)

	s.Abilities.LogPowerUsed(ev.Performer, ZapPower)
	ev.Handled = true
}
