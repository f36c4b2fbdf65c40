package radar

import (
	"log/slog"
	"time"

	"github.com/NiaAranea/HardLight"
	"github.com/NiaAranea/HardLight/weapons"
	"github.com/go-gl/mathgl/mgl64"
)

// NewBundle returns the hitscan radar bundle.
func NewBundle(settings Settings) *hardlight.Bundle {
	return hardlight.NewBundle("radar").
		Resource(&settings).
		Resource(NewTracker()).
		Handler(&HitscanFired{}).
		Loop(&HitscanExpiry{}, 0, hardlight.After)
}

// HitscanFired turns a fired hitscan into a radar beam and pushes the overlay
// to clients right away.
type HitscanFired struct {
	Entity    *hardlight.Entity
	Manager   *hardlight.Manager
	Signature *HitscanRadarSignature

	Tracker  *Tracker              `hl:"res"`
	Settings *Settings             `hl:"res"`
	Timing   *hardlight.Timing     `hl:"res"`
	Xform    *hardlight.Transforms `hl:"res"`
	Log      *slog.Logger          `hl:"res"`
}

// HandleFired handles a hitscan ray being cast.
func (s *HitscanFired) HandleFired(ev *weapons.HitscanRaycastFiredEvent) {
	if ev.Canceled || !ev.Gun.Valid() {
		return
	}
	if !s.Xform.MapUID(ev.Gun).Valid() {
		return
	}

	from := s.Xform.MapCoordinates(ev.Gun)

	var to mgl64.Vec2
	if hit := s.Manager.Entity(ev.HitEntity); hit != nil && hardlight.Has[hardlight.Transform](hit) {
		to = s.Xform.MapCoordinates(ev.HitEntity).Position
	} else {
		to = from.Position.Add(s.Xform.Facing(ev.Gun).Mul(s.Settings.MaxLength))
	}

	line := HitscanLine{
		Start:     from.Position,
		End:       to,
		Thickness: s.Settings.Thickness,
		Color:     Red,
	}
	if s.Signature.RadarColor != nil {
		line.Color = *s.Signature.RadarColor
	}

	lifetime := s.Settings.Lifetime
	if s.Signature.LifeTime > 0 {
		lifetime = time.Duration(s.Signature.LifeTime * float64(time.Second))
	}

	// beams due this tick must not ride along with the new one
	s.Tracker.Expire(s.Timing.CurTime)
	s.Tracker.Add(line, s.Timing.CurTime+lifetime)
	s.Log.Debug("hitscan beam on radar", "sawmill", "radar", "gun", ev.Gun, "lifetime", lifetime)

	s.Manager.RaiseNetworkEvent(s.Tracker.Event())
}

// HitscanExpiry drops expired beams and pushes the overlay when any expired.
type HitscanExpiry struct {
	Manager *hardlight.Manager
	Tracker *Tracker          `hl:"res"`
	Timing  *hardlight.Timing `hl:"res"`
}

// Run implements hardlight.Runnable.
func (s *HitscanExpiry) Run() {
	if s.Tracker.Expire(s.Timing.CurTime) == 0 {
		return
	}
	s.Manager.RaiseNetworkEvent(s.Tracker.Event())
}
