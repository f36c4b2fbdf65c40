// Package radar tracks short-lived hitscan beams and pushes them to radar
// consoles as blips.
package radar

import (
	"cmp"
	"image/color"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Red is the default beam color.
var Red = color.RGBA{R: 255, A: 255}

// BlipShape is the glyph a blip is drawn with.
type BlipShape uint8

const (
	Circle BlipShape = iota
	Square
	Triangle
	Star
	Diamond
	Hexagon
	Arrow
	Ring
)

// String returns the string representation of the shape.
func (s BlipShape) String() string {
	switch s {
	case Circle:
		return "Circle"
	case Square:
		return "Square"
	case Triangle:
		return "Triangle"
	case Star:
		return "Star"
	case Diamond:
		return "Diamond"
	case Hexagon:
		return "Hexagon"
	case Arrow:
		return "Arrow"
	case Ring:
		return "Ring"
	default:
		return "Unknown"
	}
}

// Blip is a single contact on a radar screen.
type Blip struct {
	Position mgl64.Vec2 `json:"position"`
	Velocity mgl64.Vec2 `json:"velocity"`
	Scale    float64    `json:"scale"`
	Color    color.RGBA `json:"color"`
	Shape    BlipShape  `json:"shape"`
}

// HitscanLine is a beam drawn on radar screens. It is comparable and used as
// the key of the active set, so two identical beams collapse into one.
type HitscanLine struct {
	Start     mgl64.Vec2 `json:"start"`
	End       mgl64.Vec2 `json:"end"`
	Thickness float64    `json:"thickness"`
	Color     color.RGBA `json:"color"`
}

// GiveBlipsEvent is the network event carrying the current radar overlay.
type GiveBlipsEvent struct {
	Blips        []Blip        `json:"blips"`
	HitscanLines []HitscanLine `json:"hitscanLines"`
}

// HitscanRadarSignature makes a hitscan entity visible on radar when fired.
type HitscanRadarSignature struct {
	// RadarColor overrides the beam color. Nil means Red.
	RadarColor *color.RGBA

	// LifeTime is how long the beam stays visible, in seconds.
	// Values <= 0 fall back to the configured default.
	LifeTime float64
}

// Settings tunes beam rendering.
type Settings struct {
	Lifetime  time.Duration
	MaxLength float64
	Thickness float64
}

// DefaultSettings returns the stock beam settings.
func DefaultSettings() Settings {
	return Settings{
		Lifetime:  500 * time.Millisecond,
		MaxLength: 45,
		Thickness: 2,
	}
}

// Tracker holds the beams currently visible and when each one expires.
// It is owned by the tick goroutine.
type Tracker struct {
	active map[HitscanLine]time.Duration
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{active: make(map[HitscanLine]time.Duration)}
}

// Add records a beam visible until expiry. Adding an identical beam again
// moves its expiry.
func (t *Tracker) Add(line HitscanLine, expiry time.Duration) {
	t.active[line] = expiry
}

// Expire drops every beam whose expiry is at or before now and returns how
// many were dropped.
func (t *Tracker) Expire(now time.Duration) int {
	removed := 0
	for line, expiry := range t.active {
		if now >= expiry {
			delete(t.active, line)
			removed++
		}
	}
	return removed
}

// Active reports whether the beam is currently visible.
func (t *Tracker) Active(line HitscanLine) bool {
	_, ok := t.active[line]
	return ok
}

// Len returns the number of visible beams.
func (t *Tracker) Len() int {
	return len(t.active)
}

// Lines returns the visible beams in a stable order.
func (t *Tracker) Lines() []HitscanLine {
	lines := make([]HitscanLine, 0, len(t.active))
	for line := range t.active {
		lines = append(lines, line)
	}
	slices.SortFunc(lines, compareLines)
	return lines
}

// Event returns the network event describing the visible beams.
func (t *Tracker) Event() GiveBlipsEvent {
	return GiveBlipsEvent{
		Blips:        []Blip{},
		HitscanLines: t.Lines(),
	}
}

func compareLines(a, b HitscanLine) int {
	return cmp.Or(
		cmp.Compare(a.Start.X(), b.Start.X()),
		cmp.Compare(a.Start.Y(), b.Start.Y()),
		cmp.Compare(a.End.X(), b.End.X()),
		cmp.Compare(a.End.Y(), b.End.Y()),
		cmp.Compare(a.Thickness, b.Thickness),
		cmp.Compare(packColor(a.Color), packColor(b.Color)),
	)
}

func packColor(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}
