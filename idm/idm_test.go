package idm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lanesim/obstacle"
)

func TestFreeFlowAtDesiredVelocity(t *testing.T) {
	follower := obstacle.Obstacle{Position: 0, Velocity: 10, MaxVelocity: 10}
	a := Acceleration(follower, obstacle.FarAhead())
	assert.InDelta(t, 0, a, 1e-9)
}

func TestFreeFlowBelowDesiredVelocityIsPositive(t *testing.T) {
	follower := obstacle.Obstacle{Position: 0, Velocity: 5, MaxVelocity: 10}
	a := Acceleration(follower, obstacle.FarAhead())
	assert.Greater(t, a, 0.0)
}

func TestApproachingSlowerLeaderDecelerates(t *testing.T) {
	follower := obstacle.Obstacle{Position: 0, Velocity: 10, MaxVelocity: 10}
	leader := obstacle.Obstacle{Position: 5, Velocity: 0, MaxVelocity: 10}
	a := Acceleration(follower, leader)
	assert.Less(t, a, 0.0)
}

func TestLargeGapBehavesLikeFreeFlow(t *testing.T) {
	follower := obstacle.Obstacle{Position: 0, Velocity: 5, MaxVelocity: 10}
	nearFreeFlow := Acceleration(follower, obstacle.FarAhead())
	farLeader := obstacle.Obstacle{Position: 1000, Velocity: 10, MaxVelocity: 10}
	withFarLeader := Acceleration(follower, farLeader)
	assert.InDelta(t, nearFreeFlow, withFarLeader, 0.05)
}
