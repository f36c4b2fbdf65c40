// Package psionics implements psionic powers.
package psionics

import (
	"log/slog"
	"sync"

	"github.com/NiaAranea/HardLight"
)

// Abilities gates and records power use.
type Abilities interface {
	// OnAttemptPowerUse reports whether performer may use the power now.
	OnAttemptPowerUse(performer hardlight.EntityUID, power string) bool

	// LogPowerUsed records that performer used the power.
	LogPowerUsed(performer hardlight.EntityUID, power string)
}

// Psionic marks an entity with psionic powers.
type Psionic struct{}

// PsionicsDisabled blocks every power of its holder.
type PsionicsDisabled struct{}

// PowerUsedEvent is broadcast after a power was used.
type PowerUsedEvent struct {
	Performer hardlight.EntityUID
	Power     string
}

// AbilityLog is the default Abilities. A performer may use powers when it is
// psionic and not disabled.
type AbilityLog struct {
	m   *hardlight.Manager
	log *slog.Logger

	mu    sync.Mutex
	usage map[string]int
}

// NewAbilityLog creates an AbilityLog bound to the manager.
func NewAbilityLog(m *hardlight.Manager) *AbilityLog {
	return &AbilityLog{
		m:     m,
		log:   m.Logger().With("sawmill", "psionics"),
		usage: make(map[string]int),
	}
}

// OnAttemptPowerUse implements Abilities.
func (a *AbilityLog) OnAttemptPowerUse(performer hardlight.EntityUID, power string) bool {
	e := a.m.Entity(performer)
	if e == nil || !hardlight.Has[Psionic](e) || hardlight.Has[PsionicsDisabled](e) {
		a.log.Debug("power use refused", "performer", performer, "power", power)
		return false
	}
	return true
}

// LogPowerUsed implements Abilities.
func (a *AbilityLog) LogPowerUsed(performer hardlight.EntityUID, power string) {
	a.mu.Lock()
	a.usage[power]++
	a.mu.Unlock()

	a.log.Info("power used", "performer", performer, "power", power)
	a.m.Broadcast(PowerUsedEvent{Performer: performer, Power: power})
}

// Uses returns how many times the power was used.
func (a *AbilityLog) Uses(power string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usage[power]
}

var _ Abilities = (*AbilityLog)(nil)
