package main

import (
	"github.com/NiaAranea/HardLight"
	"github.com/NiaAranea/HardLight/weapons"
)

// contentBundle registers the prototypes the gameplay systems spawn.
func contentBundle() func(*hardlight.Manager) *hardlight.Bundle {
	projectile := func() []any {
		return []any{&weapons.Projectile{}, &hardlight.Physics{}}
	}
	return hardlight.NewBundle("content").
		Prototype("TeslaGunBullet", projectile).
		Prototype("BulletShip", projectile).
		Build()
}
