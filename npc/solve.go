package npc

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Solution is a firing solution against a moving target.
type Solution struct {
	// AimPoint is where the target will be when the projectile arrives.
	AimPoint mgl64.Vec2

	// HitTime is the projectile's flight time in seconds.
	HitTime float64
}

// Solve computes where to aim from shipPos to hit a target at targetPos moving
// at relVel relative to the ship, with projectiles flying at speed.
// It reports false when no shot can connect: the target moves sideways faster
// than the projectile, or recedes faster than the projectile closes.
func Solve(shipPos, targetPos, relVel mgl64.Vec2, speed float64) (Solution, bool) {
	toDest := targetPos.Sub(shipPos)
	dir := normalizedOrZero(toDest)

	normVel := dir.Mul(relVel.Dot(dir))
	tgVel := relVel.Sub(normVel)
	if tgVel.LenSqr() > speed*speed {
		return Solution{}, false
	}

	normTarget := dir.Mul(math.Sqrt(math.Max(0, speed*speed-tgVel.LenSqr())))
	if normTarget.Dot(normVel) > 0 && normVel.Len() > normTarget.Len() {
		return Solution{}, false
	}

	dist := toDest.Len()
	approach := normTarget.Sub(normVel).Len()
	if approach <= 0 {
		if dist > 0 {
			return Solution{}, false
		}
		return Solution{AimPoint: targetPos}, true
	}

	hitTime := dist / approach
	return Solution{
		AimPoint: targetPos.Add(relVel.Mul(hitTime)),
		HitTime:  hitTime,
	}, true
}

// ShortestAngleDistance returns the signed angle from one heading to another,
// wrapped into [-π, π].
func ShortestAngleDistance(from, to float64) float64 {
	diff := math.Mod(to-from, 2*math.Pi)
	switch {
	case diff < -math.Pi:
		diff += 2 * math.Pi
	case diff > math.Pi:
		diff -= 2 * math.Pi
	}
	return diff
}

// LeadBlend returns how far to move the leading velocity toward the target's
// velocity over a frame of frameTime seconds.
func LeadBlend(accuracy, frameTime float64) float64 {
	return 1 - math.Pow(1-accuracy, frameTime)
}

func normalizedOrZero(v mgl64.Vec2) mgl64.Vec2 {
	if v.LenSqr() == 0 {
		return mgl64.Vec2{}
	}
	return v.Normalize()
}
