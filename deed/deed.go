// Package deed tracks shuttle deeds: who owns a ship, whether they are still
// around, and which deeded ships are nearby.
package deed

import (
	"time"

	"github.com/NiaAranea/HardLight"
	"github.com/google/uuid"
)

// ShuttleDeed records ownership of a shuttle. It sits on the shuttle grid and
// on the owner's ID card.
type ShuttleDeed struct {
	// OwnerUserID is the owner's user id as a UUID string.
	OwnerUserID string

	ShuttleName       string
	ShuttleNameSuffix string

	// ShuttleOwner is the owner's display name.
	ShuttleOwner string
}

// FullName returns the shuttle name with its suffix.
func (d *ShuttleDeed) FullName() string {
	if d.ShuttleNameSuffix == "" {
		return d.ShuttleName
	}
	return d.ShuttleName + " " + d.ShuttleNameSuffix
}

// OwnerTracking counts consecutive polls during which a shuttle's owner was
// away. The shuttle is deleted once the count reaches MaxInactiveChecks.
type OwnerTracking struct {
	InactiveCheckCount int
	MaxInactiveChecks  int

	CheckInterval time.Duration

	// NextCheck is the game time of the next poll.
	NextCheck time.Duration
}

// Settings tunes owner tracking.
type Settings struct {
	CheckInterval     time.Duration
	MaxInactiveChecks int
}

// DefaultSettings polls every ten minutes and deletes after six misses.
func DefaultSettings() Settings {
	return Settings{
		CheckInterval:     10 * time.Minute,
		MaxInactiveChecks: 6,
	}
}

// OwnerActive reports whether the owner behind ownerUserID is connected.
// Malformed ids and unknown sessions count as inactive.
func OwnerActive(sessions hardlight.SessionRegistry, ownerUserID string) bool {
	if ownerUserID == "" || sessions == nil {
		return false
	}
	id, err := uuid.Parse(ownerUserID)
	if err != nil {
		return false
	}
	status, ok := sessions.SessionByID(id)
	if !ok {
		return false
	}
	return status.Active()
}
