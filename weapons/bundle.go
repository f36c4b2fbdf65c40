package weapons

import (
	"github.com/NiaAranea/HardLight"
)

// NewBundle returns the weapons bundle. It provides Guns to other systems.
func NewBundle() func(*hardlight.Manager) *hardlight.Bundle {
	return func(m *hardlight.Manager) *hardlight.Bundle {
		b := hardlight.NewBundle("weapons")
		return hardlight.Provide[Guns](b, NewGunnery(m))
	}
}
