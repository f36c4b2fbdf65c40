package shuttle

import (
	"log/slog"

	"github.com/NiaAranea/HardLight"
)

// MessageSender delivers a UI message to the server, addressed to the entity
// whose interface sent it.
type MessageSender interface {
	SendMessage(target hardlight.EntityUID, msg any) error
}

// ConsoleWindow is the client-side console window. The UI calls
// SetInertiaDampeningMode and SetServiceFlags when the pilot changes a control.
type ConsoleWindow struct {
	OnInertiaDampeningModeChanged func(shuttle hardlight.EntityUID, mode InertiaDampeningMode)
	OnServiceFlagsChanged         func(shuttle hardlight.EntityUID, flags ServiceFlags)
}

// SetInertiaDampeningMode reports a dampening change made in the window.
func (w *ConsoleWindow) SetInertiaDampeningMode(shuttle hardlight.EntityUID, mode InertiaDampeningMode) {
	if w.OnInertiaDampeningModeChanged != nil {
		w.OnInertiaDampeningModeChanged(shuttle, mode)
	}
}

// SetServiceFlags reports a service flag change made in the window.
func (w *ConsoleWindow) SetServiceFlags(shuttle hardlight.EntityUID, flags ServiceFlags) {
	if w.OnServiceFlagsChanged != nil {
		w.OnServiceFlagsChanged(shuttle, flags)
	}
}

// ConsoleInterface relays console window changes to the server.
type ConsoleInterface struct {
	// Owner is the console entity the interface is bound to.
	Owner  hardlight.EntityUID
	Sender MessageSender
	Log    *slog.Logger
}

// Open subscribes to the window's controls. Existing subscribers keep firing.
// A nil window is ignored.
func (c *ConsoleInterface) Open(window *ConsoleWindow) {
	if window == nil {
		return
	}

	prevMode := window.OnInertiaDampeningModeChanged
	window.OnInertiaDampeningModeChanged = func(shuttle hardlight.EntityUID, mode InertiaDampeningMode) {
		if prevMode != nil {
			prevMode(shuttle, mode)
		}
		c.send(&SetInertiaDampeningRequest{ShuttleEntityUID: shuttle, Mode: mode})
	}

	prevFlags := window.OnServiceFlagsChanged
	window.OnServiceFlagsChanged = func(shuttle hardlight.EntityUID, flags ServiceFlags) {
		if prevFlags != nil {
			prevFlags(shuttle, flags)
		}
		c.send(&SetServiceFlagsRequest{ShuttleEntityUID: shuttle, ServiceFlags: flags})
	}
}

func (c *ConsoleInterface) send(msg any) {
	if c.Sender == nil {
		return
	}
	if err := c.Sender.SendMessage(c.Owner, msg); err != nil && c.Log != nil {
		c.Log.Warn("failed to send console message", "console", c.Owner, "err", err)
	}
}
