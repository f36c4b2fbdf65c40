package deed

import (
	"github.com/NiaAranea/HardLight"
)

// NearbyShuttleDeedGridsQuery finds deeded grids around an entity. NPCs use it
// to pick player ships to engage.
type NearbyShuttleDeedGridsQuery struct {
	Range     float64
	Blacklist hardlight.EntityWhitelist
}

// DefaultRange is the query range used when none is configured.
const DefaultRange = 2000.0

// NewNearbyShuttleDeedGridsQuery returns a query with the default range and
// an empty blacklist.
func NewNearbyShuttleDeedGridsQuery() NearbyShuttleDeedGridsQuery {
	return NearbyShuttleDeedGridsQuery{Range: DefaultRange}
}

// Run returns the deeded grids on owner's map within Range of it, nearest
// first. Blacklisted grids are left out.
func (q NearbyShuttleDeedGridsQuery) Run(m *hardlight.Manager, owner hardlight.EntityUID) []hardlight.EntityUID {
	origin := m.Transforms().MapCoordinates(owner)
	if origin.MapID == hardlight.NullMap {
		return nil
	}

	var out []hardlight.EntityUID
	for _, uid := range m.Lookup().GridsInRange(origin, q.Range) {
		e := m.Entity(uid)
		if !hardlight.Has[ShuttleDeed](e) {
			continue
		}
		if q.Blacklist.IsValid(e) {
			continue
		}
		out = append(out, uid)
	}
	return out
}
