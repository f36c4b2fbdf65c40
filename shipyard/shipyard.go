// Package shipyard holds the ship-save bookkeeping shared by the shipyard
// systems.
package shipyard

import (
	"github.com/NiaAranea/HardLight"
)

// PersistOnShipSave marks an entity that keeps itself and its contents when
// the ship it is on is saved.
type PersistOnShipSave struct{}

// Persisted returns the entities on grid that survive a ship save: every
// entity carrying PersistOnShipSave and everything parented under one, in
// ascending uid order.
func Persisted(m *hardlight.Manager, grid hardlight.EntityUID) []hardlight.EntityUID {
	var out []hardlight.EntityUID
	xforms := m.Transforms()
	for _, uid := range m.Lookup().GridEntities(grid) {
		for cur := uid; cur.Valid() && cur != grid; cur = xforms.Coordinates(cur).Entity {
			if hardlight.Has[PersistOnShipSave](m.Entity(cur)) {
				out = append(out, uid)
				break
			}
		}
	}
	return out
}
