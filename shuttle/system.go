package shuttle

import (
	"log/slog"

	"github.com/NiaAranea/HardLight"
)

// NewBundle returns the shuttle console bundle.
func NewBundle() *hardlight.Bundle {
	return hardlight.NewBundle("shuttle").
		Handler(&ConsoleRequests{})
}

// ConsoleRequests applies console requests raised at a console entity. The
// console must sit on the shuttle it is steering.
type ConsoleRequests struct {
	Entity  *hardlight.Entity
	Manager *hardlight.Manager
	_       hardlight.With[ShuttleConsole]

	Xform *hardlight.Transforms `hl:"res"`
	Log   *slog.Logger          `hl:"res"`
}

func (s *ConsoleRequests) shuttle(uid hardlight.EntityUID) *Shuttle {
	if s.Xform.Grid(s.Entity.UID()) != uid {
		s.Log.Warn("console request for a shuttle the console is not on",
			"sawmill", "shuttle",
			"console", s.Entity.UID(),
			"shuttle", uid,
		)
		return nil
	}
	return hardlight.Get[Shuttle](s.Manager.Entity(uid))
}

// HandleDampening handles a dampening change.
func (s *ConsoleRequests) HandleDampening(req *SetInertiaDampeningRequest) {
	switch req.Mode {
	case Off, Dampen, Anchor:
	default:
		return
	}
	sh := s.shuttle(req.ShuttleEntityUID)
	if sh == nil {
		return
	}
	sh.Dampening = req.Mode
	s.Log.Debug("inertia dampening changed", "sawmill", "shuttle", "shuttle", req.ShuttleEntityUID, "mode", req.Mode)
}

// HandleServiceFlags handles a service flag change.
func (s *ConsoleRequests) HandleServiceFlags(req *SetServiceFlagsRequest) {
	sh := s.shuttle(req.ShuttleEntityUID)
	if sh == nil {
		return
	}
	sh.ServiceFlags = req.ServiceFlags & (Services | Trade | Social)
	s.Log.Debug("service flags changed", "sawmill", "shuttle", "shuttle", req.ShuttleEntityUID, "flags", sh.ServiceFlags)
}
