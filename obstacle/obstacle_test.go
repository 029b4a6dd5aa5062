package obstacle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFarAheadFarBehind(t *testing.T) {
	ahead := FarAhead()
	assert.True(t, math.IsInf(ahead.Position.Value(), 1))
	assert.True(t, math.IsInf(ahead.Velocity, 1))

	behind := FarBehind()
	assert.True(t, math.IsInf(behind.Position.Value(), -1))
	assert.Equal(t, 0.0, behind.Velocity)
	assert.Equal(t, 20.0, behind.MaxVelocity)
}

func TestObstacleOffsetByLeavesVelocitiesUntouched(t *testing.T) {
	o := Obstacle{Position: 10, Velocity: 5, MaxVelocity: 12}
	shifted := o.OffsetBy(-7)
	assert.Equal(t, 3.0, shifted.Position.Value())
	assert.Equal(t, 5.0, shifted.Velocity)
	assert.Equal(t, 12.0, shifted.MaxVelocity)
}

func TestLaneCarIsAnObstacle(t *testing.T) {
	car := LaneCar{Obstacle: Obstacle{Position: 0, Velocity: 1, MaxVelocity: 10}}
	var asObstacle Obstacle = car.Obstacle
	assert.Equal(t, 1.0, asObstacle.Velocity)
}

func TestTransferringLaneCarOffsetByKeepsLateralState(t *testing.T) {
	car := TransferringLaneCar{
		LaneCar:          LaneCar{Obstacle: Obstacle{Position: 5}},
		TransferPosition: 0.25,
		TransferVelocity: -0.1,
	}
	shifted := car.OffsetBy(10)
	assert.Equal(t, 15.0, shifted.Position.Value())
	assert.Equal(t, 0.25, shifted.TransferPosition)
	assert.Equal(t, -0.1, shifted.TransferVelocity)
}
