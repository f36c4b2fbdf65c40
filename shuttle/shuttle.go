// Package shuttle holds the shuttle console controls: inertia dampening and
// the service flags a ship advertises.
package shuttle

import (
	"strings"

	"github.com/NiaAranea/HardLight"
)

// InertiaDampeningMode is how a shuttle's thrusters hold it in place.
type InertiaDampeningMode uint8

const (
	// Off lets the shuttle drift.
	Off InertiaDampeningMode = 0
	// Dampen brakes the shuttle when no thrust is applied.
	Dampen InertiaDampeningMode = 1
	// Anchor holds the shuttle in place.
	Anchor InertiaDampeningMode = 2
	// Query asks for the current mode without changing it.
	Query InertiaDampeningMode = 255
)

// String returns the string representation of the mode.
func (m InertiaDampeningMode) String() string {
	switch m {
	case Off:
		return "Off"
	case Dampen:
		return "Dampen"
	case Anchor:
		return "Anchor"
	case Query:
		return "Query"
	default:
		return "Unknown"
	}
}

// ServiceFlags are the services a shuttle advertises on radar.
type ServiceFlags uint8

const (
	None     ServiceFlags = 0
	Services ServiceFlags = 1 << 0
	Trade    ServiceFlags = 1 << 1
	Social   ServiceFlags = 1 << 2
)

// String returns the set flags joined by "|", or "None".
func (f ServiceFlags) String() string {
	if f == None {
		return "None"
	}
	var parts []string
	if f&Services != 0 {
		parts = append(parts, "Services")
	}
	if f&Trade != 0 {
		parts = append(parts, "Trade")
	}
	if f&Social != 0 {
		parts = append(parts, "Social")
	}
	if rest := f &^ (Services | Trade | Social); rest != 0 || len(parts) == 0 {
		parts = append(parts, "Unknown")
	}
	return strings.Join(parts, "|")
}

// Shuttle marks a grid that can fly.
type Shuttle struct {
	Dampening    InertiaDampeningMode
	ServiceFlags ServiceFlags
}

// ShuttleConsole marks a piloting console.
type ShuttleConsole struct{}

// SetInertiaDampeningRequest asks the server to change a shuttle's dampening.
type SetInertiaDampeningRequest struct {
	ShuttleEntityUID hardlight.EntityUID  `json:"shuttleEntityUid"`
	Mode             InertiaDampeningMode `json:"mode"`
}

// SetServiceFlagsRequest asks the server to change a shuttle's service flags.
type SetServiceFlagsRequest struct {
	ShuttleEntityUID hardlight.EntityUID `json:"shuttleEntityUid"`
	ServiceFlags     ServiceFlags        `json:"serviceFlags"`
}

// Messages returns the console messages clients may send, keyed by wire name.
func Messages() map[string]func() any {
	return map[string]func() any{
		"SetInertiaDampeningRequest": func() any { return &SetInertiaDampeningRequest{} },
		"SetServiceFlagsRequest":     func() any { return &SetServiceFlagsRequest{} },
	}
}
