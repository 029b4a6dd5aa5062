// Package obstacle holds the value types shared by every lane and transfer
// lane: a lightweight kinematic descriptor (Obstacle), a lane-resident car
// (LaneCar), and a car mid-transfer between two parallel lanes
// (TransferringLaneCar). Every LaneCar is usable wherever an Obstacle is
// expected, via embedding (Design Note "Polymorphic car/obstacle").
package obstacle

import (
	"math"

	"lanesim/actorsys"
	"lanesim/geom/ordered"
)

// Obstacle is a leader-equivalent kinematic descriptor: a position along a
// lane's centre path, a non-negative velocity, and its max velocity.
// Position is an ordered.Float so cars and obstacles can always be sorted
// by position without a partial_cmp-style unwrap, per the Design Note
// "Ordered floating positions".
type Obstacle struct {
	Position    ordered.Float
	Velocity    float64
	MaxVelocity float64
}

// FarAhead is the sentinel leader used when there is nothing ahead to
// follow: an infinitely distant, infinitely fast obstacle so the IDM
// free-flow term dominates.
func FarAhead() Obstacle {
	return Obstacle{Position: ordered.New(math.Inf(1)), Velocity: math.Inf(1), MaxVelocity: math.Inf(1)}
}

// FarBehind is the sentinel follower used when there is nothing behind: an
// infinitely distant, stationary obstacle with a generous max velocity.
func FarBehind() Obstacle {
	return Obstacle{Position: ordered.New(math.Inf(-1)), Velocity: 0, MaxVelocity: 20}
}

// OffsetBy returns a copy of o shifted by delta along the path; velocities
// are left untouched.
func (o Obstacle) OffsetBy(delta float64) Obstacle {
	o.Position = o.Position.Add(delta)
	return o
}

// LaneCar is a car resident on a Lane: an Obstacle plus the trip actor it
// belongs to and its current signed acceleration.
type LaneCar struct {
	Obstacle
	Trip         actorsys.ID
	Acceleration float64
}

// OffsetBy returns a copy of c with its position shifted by delta.
func (c LaneCar) OffsetBy(delta float64) LaneCar {
	c.Obstacle = c.Obstacle.OffsetBy(delta)
	return c
}

// TransferringLaneCar wraps a LaneCar with the lateral sub-state it carries
// while resident on a TransferLane: transfer_position in [-1,+1] (-1 fully
// left, 0 centre, +1 fully right), its rate, and its acceleration.
type TransferringLaneCar struct {
	LaneCar
	TransferPosition     float64
	TransferVelocity     float64
	TransferAcceleration float64
}

// OffsetBy returns a copy of c with its longitudinal position shifted by
// delta, leaving lateral state untouched.
func (c TransferringLaneCar) OffsetBy(delta float64) TransferringLaneCar {
	c.LaneCar = c.LaneCar.OffsetBy(delta)
	return c
}
