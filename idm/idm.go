// Package idm implements the Intelligent Driver Model: a pure
// car-following law returning a signed acceleration as a function of gap,
// speed, and speed difference to a leader.
package idm

import (
	"math"

	"lanesim/obstacle"
)

// Fixed model parameters, per spec.md §4.2.
const (
	// DesiredTimeHeadway is the desired time gap to the leader, in seconds.
	DesiredTimeHeadway = 1.5
	// ComfortableBrakingDeceleration is the comfortable deceleration used
	// both by the interaction term here and as a safety threshold elsewhere
	// (transferlane's lateral-evasion check), per spec.md §4.2/§4.4.
	ComfortableBrakingDeceleration = 2.0
	// MaxAcceleration is the maximum comfortable acceleration.
	MaxAcceleration = 1.5
	// MinGap is the minimum bumper-to-bumper gap at a standstill.
	MinGap = 2.0
)

// Acceleration returns the IDM acceleration for follower reacting to
// leader. The desired velocity v0 is taken from follower.MaxVelocity, per
// spec.md §4.2. When leader is the FarAhead sentinel, the interaction term
// vanishes and only the free-flow term remains.
func Acceleration(follower, leader obstacle.Obstacle) float64 {
	v0 := follower.MaxVelocity
	v := follower.Velocity
	freeFlow := MaxAcceleration * (1 - math.Pow(safeRatio(v, v0), 4))

	gap := leader.Position.Value() - follower.Position.Value()
	if math.IsInf(gap, 1) {
		return freeFlow
	}

	dv := v - leader.Velocity
	sStar := MinGap + math.Max(0, v*DesiredTimeHeadway+
		(v*dv)/(2*math.Sqrt(MaxAcceleration*ComfortableBrakingDeceleration)))

	if gap <= 0 {
		gap = 1e-6 // guard against a leader occupying the same position
	}
	interaction := MaxAcceleration * math.Pow(sStar/gap, 2)

	return freeFlow - interaction
}

// safeRatio avoids 0/0 when a follower's max velocity is zero (a stationary
// blocking obstacle acting as a "follower" is never evaluated this way in
// practice, but the helper keeps Acceleration total).
func safeRatio(v, v0 float64) float64 {
	if v0 == 0 {
		if v == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return v / v0
}
