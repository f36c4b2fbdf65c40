package hardlight

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// MapID identifies a map. NullMap means "not on any map".
type MapID uint32

// NullMap is the zero MapID.
const NullMap MapID = 0

// Coordinates is a position relative to an entity, usually a grid or a map.
type Coordinates struct {
	Entity   EntityUID
	Position mgl64.Vec2
}

// Offset returns the coordinates moved by d in the same frame.
func (c Coordinates) Offset(d mgl64.Vec2) Coordinates {
	return Coordinates{Entity: c.Entity, Position: c.Position.Add(d)}
}

// MapCoordinates is an absolute position on a map.
type MapCoordinates struct {
	MapID    MapID
	Position mgl64.Vec2
}

// Transform places an entity in the world. LocalPosition and LocalRotation
// are relative to Parent. MapID, MapUID and GridUID are resolved when the
// entity is placed or moved.
type Transform struct {
	Parent        EntityUID
	LocalPosition mgl64.Vec2
	LocalRotation float64

	MapID   MapID
	MapUID  EntityUID
	GridUID EntityUID
}

// Physics is a physics body.
type Physics struct {
	LinearVelocity  mgl64.Vec2
	AngularVelocity float64
}

// Map marks a map entity.
type Map struct {
	MapID MapID
}

// MapGrid marks a grid: a ship, station or other tile structure on a map.
type MapGrid struct{}

// Tags holds the string tags of an entity.
type Tags struct {
	Tags []string
}

// NewTags returns a Tags component holding the given tags.
func NewTags(tags ...string) *Tags {
	return &Tags{Tags: tags}
}

// HasTag reports whether the tag is present.
func (t *Tags) HasTag(tag string) bool {
	if t == nil {
		return false
	}
	return slices.Contains(t.Tags, tag)
}

// MetaData holds the prototype and display name of an entity.
// Every spawned entity has one.
type MetaData struct {
	Prototype string
	Name      string
}

// Transforms resolves entity positions. It is registered as a resource.
type Transforms struct {
	m *Manager
}

// place fills in the transform of a new entity from its spawn coordinates.
func (t *Transforms) place(e *Entity, x *Transform, coords Coordinates) {
	if coords.Entity.Valid() {
		x.Parent = coords.Entity
		x.LocalPosition = coords.Position
	}
	t.resolve(e, x)
}

// resolve recomputes the map and grid of x from the entity and its parents.
func (t *Transforms) resolve(e *Entity, x *Transform) {
	x.MapID, x.MapUID, x.GridUID = NullMap, Invalid, Invalid

	if mp := Get[Map](e); mp != nil {
		x.MapID, x.MapUID = mp.MapID, e.uid
		return
	}
	if Has[MapGrid](e) {
		x.GridUID = e.uid
	}

	parent := t.m.Entity(x.Parent)
	if parent == nil {
		return
	}
	px := Get[Transform](parent)
	if px == nil {
		return
	}
	x.MapID, x.MapUID = px.MapID, px.MapUID
	if !x.GridUID.Valid() {
		x.GridUID = px.GridUID
	}
}

// SetCoordinates moves an entity to new coordinates, reparenting it.
func (t *Transforms) SetCoordinates(uid EntityUID, coords Coordinates) {
	e := t.m.Entity(uid)
	x := Get[Transform](e)
	if x == nil {
		return
	}
	x.Parent = coords.Entity
	x.LocalPosition = coords.Position
	t.resolve(e, x)
	for _, child := range t.m.children(uid) {
		if ce := t.m.Entity(child); ce != nil {
			t.resolve(ce, Get[Transform](ce))
		}
	}
}

// SetLocalPosition moves an entity within its parent.
func (t *Transforms) SetLocalPosition(uid EntityUID, pos mgl64.Vec2) {
	if x := Get[Transform](t.m.Entity(uid)); x != nil {
		x.LocalPosition = pos
	}
}

// SetLocalRotation rotates an entity within its parent.
func (t *Transforms) SetLocalRotation(uid EntityUID, theta float64) {
	if x := Get[Transform](t.m.Entity(uid)); x != nil {
		x.LocalRotation = theta
	}
}

// worldMatrix returns the world position and rotation of an entity.
func (t *Transforms) worldMatrix(uid EntityUID) (mgl64.Vec2, float64, bool) {
	var pos mgl64.Vec2
	var rot float64
	seen := 0
	for uid.Valid() {
		x := Get[Transform](t.m.Entity(uid))
		if x == nil {
			return pos, rot, seen > 0
		}
		if Has[Map](t.m.Entity(uid)) {
			return pos, rot, true
		}
		pos = rotate(pos, x.LocalRotation).Add(x.LocalPosition)
		rot += x.LocalRotation
		uid = x.Parent
		seen++
	}
	return pos, rot, seen > 0
}

// WorldPosition returns the position of the entity on its map.
func (t *Transforms) WorldPosition(uid EntityUID) (mgl64.Vec2, bool) {
	pos, _, ok := t.worldMatrix(uid)
	return pos, ok
}

// WorldRotation returns the rotation of the entity on its map, in radians.
func (t *Transforms) WorldRotation(uid EntityUID) float64 {
	_, rot, _ := t.worldMatrix(uid)
	return rot
}

// Facing returns the unit vector the entity points along on its map.
// Rotation 0 faces south (0, -1).
func (t *Transforms) Facing(uid EntityUID) mgl64.Vec2 {
	return AngleToWorldVec(t.WorldRotation(uid))
}

// MapLinearVelocity returns the entity's velocity on its map: its own body
// velocity turned into the map frame plus the velocity of every parent.
// Parent spin is not accounted for.
func (t *Transforms) MapLinearVelocity(uid EntityUID) mgl64.Vec2 {
	var vel mgl64.Vec2
	for uid.Valid() {
		e := t.m.Entity(uid)
		x := Get[Transform](e)
		if x == nil || Has[Map](e) {
			break
		}
		if body := Get[Physics](e); body != nil {
			vel = vel.Add(rotate(body.LinearVelocity, t.WorldRotation(x.Parent)))
		}
		uid = x.Parent
	}
	return vel
}

// MapCoordinates returns the absolute position of the entity.
// Entities without a transform resolve to NullMap.
func (t *Transforms) MapCoordinates(uid EntityUID) MapCoordinates {
	x := Get[Transform](t.m.Entity(uid))
	if x == nil {
		return MapCoordinates{}
	}
	pos, _, _ := t.worldMatrix(uid)
	return MapCoordinates{MapID: x.MapID, Position: pos}
}

// Coordinates returns the entity's position relative to its parent.
func (t *Transforms) Coordinates(uid EntityUID) Coordinates {
	x := Get[Transform](t.m.Entity(uid))
	if x == nil {
		return Coordinates{}
	}
	return Coordinates{Entity: x.Parent, Position: x.LocalPosition}
}

// ToMapCoordinates converts entity-relative coordinates to map coordinates.
func (t *Transforms) ToMapCoordinates(c Coordinates) MapCoordinates {
	e := t.m.Entity(c.Entity)
	x := Get[Transform](e)
	if x == nil {
		return MapCoordinates{}
	}
	if Has[Map](e) {
		return MapCoordinates{MapID: x.MapID, Position: c.Position}
	}
	origin, rot, _ := t.worldMatrix(c.Entity)
	return MapCoordinates{MapID: x.MapID, Position: origin.Add(rotate(c.Position, rot))}
}

// MapID returns the map the entity is on.
func (t *Transforms) MapID(uid EntityUID) MapID {
	if x := Get[Transform](t.m.Entity(uid)); x != nil {
		return x.MapID
	}
	return NullMap
}

// MapUID returns the map entity the entity is on, or Invalid.
func (t *Transforms) MapUID(uid EntityUID) EntityUID {
	if x := Get[Transform](t.m.Entity(uid)); x != nil {
		return x.MapUID
	}
	return Invalid
}

// Grid returns the grid the entity is on, or Invalid.
func (t *Transforms) Grid(uid EntityUID) EntityUID {
	if x := Get[Transform](t.m.Entity(uid)); x != nil {
		return x.GridUID
	}
	return Invalid
}

// AngleToWorldVec converts a rotation to its world direction vector.
func AngleToWorldVec(theta float64) mgl64.Vec2 {
	return mgl64.Vec2{math.Sin(theta), -math.Cos(theta)}
}

func rotate(v mgl64.Vec2, theta float64) mgl64.Vec2 {
	if theta == 0 {
		return v
	}
	return mgl64.Rotate2D(theta).Mul2x1(v)
}

// CreateMap spawns a new map entity and returns it with its MapID.
func (m *Manager) CreateMap() (EntityUID, MapID) {
	m.nextMap++
	id := m.nextMap
	e, _ := m.Spawn("", Coordinates{}, &Map{MapID: id}, &MetaData{Name: "map"})
	return e.UID(), id
}

// CreateGrid spawns an empty grid on the map entity at the given position.
// Extra components are attached to the grid.
func (m *Manager) CreateGrid(mapUID EntityUID, pos mgl64.Vec2, comps ...any) EntityUID {
	e, _ := m.Spawn("", Coordinates{Entity: mapUID, Position: pos}, append([]any{&MapGrid{}}, comps...)...)
	return e.UID()
}
