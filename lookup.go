package hardlight

import (
	"cmp"
	"slices"
)

// Lookup answers spatial queries over transforms. It is registered as a resource.
//
// Queries scan every entity; the worlds this runs are small enough that a
// broadphase is not needed.
type Lookup struct {
	m *Manager
}

// EntitiesInRange returns the entities on the same map within r of the
// position, in ascending uid order. Map entities are never returned.
func (l *Lookup) EntitiesInRange(mc MapCoordinates, r float64) []EntityUID {
	var out []EntityUID
	if mc.MapID == NullMap {
		return out
	}
	xforms := l.m.Transforms()
	for _, uid := range l.m.order {
		e := l.m.entities[uid]
		x := Get[Transform](e)
		if x == nil || x.MapID != mc.MapID || Has[Map](e) {
			continue
		}
		pos, _ := xforms.WorldPosition(uid)
		if pos.Sub(mc.Position).Len() <= r {
			out = append(out, uid)
		}
	}
	return out
}

// GridsInRange returns the grids on the same map whose origin lies within r
// of the position, nearest first. Ties are broken by uid.
func (l *Lookup) GridsInRange(mc MapCoordinates, r float64) []EntityUID {
	type hit struct {
		uid  EntityUID
		dist float64
	}
	var hits []hit
	xforms := l.m.Transforms()
	for _, uid := range l.EntitiesInRange(mc, r) {
		if !Has[MapGrid](l.m.entities[uid]) {
			continue
		}
		pos, _ := xforms.WorldPosition(uid)
		hits = append(hits, hit{uid: uid, dist: pos.Sub(mc.Position).Len()})
	}
	slices.SortStableFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.uid, b.uid)
	})
	out := make([]EntityUID, len(hits))
	for i, h := range hits {
		out[i] = h.uid
	}
	return out
}

// GridEntities returns the entities anchored on the grid, excluding the grid
// itself, in ascending uid order.
func (l *Lookup) GridEntities(grid EntityUID) []EntityUID {
	var out []EntityUID
	for _, uid := range l.m.order {
		if uid == grid {
			continue
		}
		if x := Get[Transform](l.m.entities[uid]); x != nil && x.GridUID == grid {
			out = append(out, uid)
		}
	}
	return out
}
