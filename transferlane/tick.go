package transferlane

import (
	"math"
	"sort"

	"lanesim/idm"
	"lanesim/lane"
	"lanesim/obstacle"
)

// Thresholds governing lateral behaviour that the original keeps as bare
// constants rather than tunables, per spec.md §4.4.
const (
	dangerThresholdFactor   = -2.0 // × idm.ComfortableBrakingDeceleration
	arrivalVelocityThresh   = 0.1
	arrivalPositionThresh   = 0.5
	arrivalDamping          = -0.9
	sideEmitPositionThresh  = 0.3
)

// tick runs one simulation step for every resident car, per spec.md §4.4.
func (t *TransferLane) tick(p lane.TickPayload) {
	sort.SliceStable(t.interactionObstacles, func(i, j int) bool {
		return t.interactionObstacles[i].Position.Less(t.interactionObstacles[j].Position)
	})

	t.recomputeAccelerations()
	t.integrate(p.Dt)
	t.drainArrivals()
	t.emitToSides()
	t.interactionObstacles = nil

	if t.publish != nil {
		select {
		case t.publish <- t.Snapshot():
		default:
		}
	}
}

// recomputeAccelerations mirrors the original's two-sided IDM-plus-
// politeness law: a car yields somewhat to whoever is behind it on its
// lateral destination lane, and evades hard if either side looks dangerous.
func (t *TransferLane) recomputeAccelerations() {
	for c := range t.cars {
		car := &t.cars[c]

		var nextObstacle obstacle.Obstacle
		if c+1 < len(t.cars) {
			nextObstacle = t.cars[c+1].Obstacle
		} else {
			nextObstacle = obstacle.FarAhead()
		}
		var previousObstacle obstacle.Obstacle
		if c > 0 {
			previousObstacle = t.cars[c-1].Obstacle
		} else {
			previousObstacle = obstacle.FarBehind()
		}

		nextInteraction, previousInteraction := t.surroundingInteractionObstacles(car.Position.Value())

		nextObstacleAcceleration := math.Min(
			idm.Acceleration(car.Obstacle, nextObstacle),
			idm.Acceleration(car.Obstacle, nextInteraction),
		)
		previousObstacleAcceleration := math.Min(
			idm.Acceleration(previousObstacle, car.Obstacle),
			idm.Acceleration(previousInteraction, car.Obstacle),
		)

		var acceleration float64
		if previousObstacleAcceleration < 0 {
			acceleration = (1-t.tunables.Politeness)*nextObstacleAcceleration + t.tunables.Politeness*previousObstacleAcceleration
		} else {
			acceleration = nextObstacleAcceleration
		}
		car.Acceleration = acceleration

		dangerThreshold := dangerThresholdFactor * idm.ComfortableBrakingDeceleration
		isDangerous := nextObstacleAcceleration < dangerThreshold || previousObstacleAcceleration < dangerThreshold
		if isDangerous {
			if car.TransferPosition >= 0 {
				car.TransferAcceleration = t.tunables.LateralEvasion
			} else {
				car.TransferAcceleration = -t.tunables.LateralEvasion
			}
		}

		arrivingSoon := math.Abs(car.TransferVelocity) > arrivalVelocityThresh &&
			math.Abs(car.TransferPosition) > arrivalPositionThresh &&
			sameSign(car.TransferPosition, car.TransferVelocity)
		if arrivingSoon {
			car.TransferAcceleration = arrivalDamping * car.TransferVelocity
		}
	}
}

func sameSign(a, b float64) bool {
	if a == 0 || b == 0 {
		return a == b
	}
	return (a < 0) == (b < 0)
}

// surroundingInteractionObstacles returns the first interaction obstacle
// ahead of position and the one immediately behind it, sentinelled by
// FarAhead/FarBehind when absent.
func (t *TransferLane) surroundingInteractionObstacles(position float64) (next, previous obstacle.Obstacle) {
	idx := sort.Search(len(t.interactionObstacles), func(i int) bool {
		return t.interactionObstacles[i].Position.Value() > position
	})
	if idx < len(t.interactionObstacles) {
		next = t.interactionObstacles[idx]
	} else {
		next = obstacle.FarAhead()
	}
	if idx > 0 {
		previous = t.interactionObstacles[idx-1]
	} else {
		previous = obstacle.FarBehind()
	}
	return next, previous
}

// integrate advances every car's longitudinal and lateral kinematics, per
// spec.md §4.4.
func (t *TransferLane) integrate(dt float64) {
	for c := range t.cars {
		car := &t.cars[c]
		car.Position = car.Position.Add(dt * car.Velocity)
		car.Velocity = clamp(car.Velocity+dt*car.Acceleration, 0, car.MaxVelocity)

		car.TransferPosition += dt * car.TransferVelocity
		car.TransferVelocity += dt * car.TransferAcceleration

		speedCap := car.Velocity / t.tunables.LateralSpeedCapDivisor
		if math.Abs(car.TransferVelocity) > speedCap {
			car.TransferVelocity = speedCap * sign(car.TransferVelocity)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// drainArrivals removes every car that has drifted past ±1 and hands it off
// to the corresponding side lane, offset into that lane's coordinate frame,
// per spec.md §4.4.
func (t *TransferLane) drainArrivals() {
	kept := t.cars[:0]
	for _, car := range t.cars {
		switch {
		case car.TransferPosition < -1:
			t.swarm.Send(t.left, lane.Message{Kind: lane.MsgAddCar, Car: car.LaneCar.OffsetBy(t.leftStart)})
		case car.TransferPosition > 1:
			t.swarm.Send(t.right, lane.Message{Kind: lane.MsgAddCar, Car: car.LaneCar.OffsetBy(t.rightStart)})
		default:
			kept = append(kept, car)
		}
	}
	t.cars = kept
}

// emitToSides reports every remaining car as an obstacle to whichever side
// lane(s) it might still interact with, per spec.md §4.4.
func (t *TransferLane) emitToSides() {
	for _, car := range t.cars {
		if car.TransferPosition < sideEmitPositionThresh || car.TransferVelocity < 0 {
			t.swarm.Send(t.left, lane.Message{Kind: lane.MsgAddInteractionObstacle, Obstacle: car.Obstacle.OffsetBy(t.leftStart)})
		}
		if car.TransferPosition > -sideEmitPositionThresh || car.TransferVelocity > 0 {
			t.swarm.Send(t.right, lane.Message{Kind: lane.MsgAddInteractionObstacle, Obstacle: car.Obstacle.OffsetBy(t.rightStart)})
		}
	}
}
