package deed

import (
	"log/slog"

	"github.com/NiaAranea/HardLight"
	"github.com/NiaAranea/HardLight/shuttle"
	"github.com/google/uuid"
)

// NewBundle returns the owner tracking bundle.
func NewBundle(settings Settings) *hardlight.Bundle {
	return hardlight.NewBundle("shuttle-deed-tracking").
		Resource(&settings).
		Handler(&TrackingStartup{}).
		Handler(&TrackingCleanup{}).
		Loop(&TrackingPoll{}, 0, hardlight.Default)
}

// TrackingStartup begins tracking a deeded shuttle with a known owner.
// ID cards carry deeds too but have no Shuttle and are skipped.
type TrackingStartup struct {
	Entity *hardlight.Entity
	Deed   *ShuttleDeed
	_      hardlight.With[shuttle.Shuttle]

	Settings *Settings         `hl:"res"`
	Timing   *hardlight.Timing `hl:"res"`
}

// HandleStartup handles a component starting up on a deeded shuttle.
func (s *TrackingStartup) HandleStartup(ev hardlight.ComponentStartup) {
	if ev.ComponentType != hardlight.TypeOf[ShuttleDeed]() {
		return
	}
	// An owner id that does not parse means no owner
	if _, err := uuid.Parse(s.Deed.OwnerUserID); err != nil {
		return
	}

	tracking := hardlight.Ensure[OwnerTracking](s.Entity)
	if tracking.MaxInactiveChecks <= 0 {
		tracking.MaxInactiveChecks = s.Settings.MaxInactiveChecks
	}
	if tracking.CheckInterval <= 0 {
		tracking.CheckInterval = s.Settings.CheckInterval
	}
	tracking.NextCheck = s.Timing.CurTime + tracking.CheckInterval
	tracking.InactiveCheckCount = 0
}

// TrackingPoll checks each tracked shuttle's owner when its check is due.
type TrackingPoll struct {
	Entity   *hardlight.Entity
	Manager  *hardlight.Manager
	Tracking *OwnerTracking `hl:"mut"`
	Deed     *ShuttleDeed
	_        hardlight.With[shuttle.Shuttle]

	Sessions hardlight.SessionRegistry `hl:"res"`
	Timing   *hardlight.Timing         `hl:"res"`
	Log      *slog.Logger              `hl:"res"`
}

// Run implements hardlight.Runnable.
func (s *TrackingPoll) Run() {
	now := s.Timing.CurTime
	if now < s.Tracking.NextCheck {
		return
	}
	s.Tracking.NextCheck = now + s.Tracking.CheckInterval

	log := s.Log.With("sawmill", "shuttle-deed-tracking")

	if OwnerActive(s.Sessions, s.Deed.OwnerUserID) {
		if s.Tracking.InactiveCheckCount > 0 {
			log.Debug("shuttle owner is active again, resetting inactive count",
				"shuttle", s.Entity.String(),
				"count", s.Tracking.InactiveCheckCount,
			)
		}
		s.Tracking.InactiveCheckCount = 0
		return
	}

	s.Tracking.InactiveCheckCount++
	log.Debug("shuttle owner inactive",
		"shuttle", s.Entity.String(),
		"check", s.Tracking.InactiveCheckCount,
		"max", s.Tracking.MaxInactiveChecks,
	)

	if s.Tracking.InactiveCheckCount >= s.Tracking.MaxInactiveChecks {
		log.Info("shuttle owner inactive for too long, deleting grid",
			"shuttle", s.Entity.String(),
			"checks", s.Tracking.InactiveCheckCount,
		)
		s.Manager.QueueDel(s.Entity.UID())
	}
}

// TrackingCleanup drops all tracking state when the round restarts.
// Shuttles themselves are left alone.
type TrackingCleanup struct {
	Manager *hardlight.Manager
}

// HandleCleanup handles the round restart cleanup.
func (s *TrackingCleanup) HandleCleanup(hardlight.RoundRestartCleanupEvent) {
	for _, e := range hardlight.EntitiesWith[OwnerTracking](s.Manager) {
		hardlight.Remove[OwnerTracking](e)
	}
}
