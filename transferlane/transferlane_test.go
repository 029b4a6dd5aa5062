package transferlane

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanesim/actorsys"
	"lanesim/config"
	"lanesim/geom"
	"lanesim/geom/ordered"
	"lanesim/lane"
	"lanesim/obstacle"
)

func newTestTransferLane(t *testing.T) (*TransferLane, *lane.Swarm, actorsys.ID, actorsys.Mailbox[lane.Message], actorsys.ID, actorsys.Mailbox[lane.Message]) {
	t.Helper()
	sw := lane.NewSwarm()
	leftID := actorsys.NextID("lane")
	leftInbox := sw.Join(leftID)
	rightID := actorsys.NextID("lane")
	rightInbox := sw.Join(rightID)

	path := geom.NewPolyline([]geom.Point{{X: 0, Y: 0}, {X: 200, Y: 0}})
	tl, _ := New(path, leftID, 0, rightID, 0, sw, config.Defaults())
	return tl, sw, leftID, leftInbox, rightID, rightInbox
}

// S3: a car added to a transfer lane starts at the left extreme and can
// drift across to arrive on the right side.
func TestCarStartsAtLeftExtremeOnAdd(t *testing.T) {
	tl, _, _, _, _, _ := newTestTransferLane(t)
	tl.addCar(obstacle.LaneCar{Obstacle: obstacle.Obstacle{Position: ordered.New(10), Velocity: 5, MaxVelocity: 20}})

	require.Len(t, tl.Cars(), 1)
	assert.Equal(t, -1.0, tl.Cars()[0].TransferPosition)
}

// Invariant 3: a car whose transfer_position drifts past +1 is handed off
// to the right lane and removed from the transfer lane.
func TestCarDriftingPastRightExtremeArrivesOnRightLane(t *testing.T) {
	tl, _, _, _, rightID, rightInbox := newTestTransferLane(t)
	tl.cars = []obstacle.TransferringLaneCar{
		{
			LaneCar:          obstacle.LaneCar{Obstacle: obstacle.Obstacle{Position: ordered.New(10), Velocity: 5, MaxVelocity: 20}},
			TransferPosition: 0.95,
			TransferVelocity: 0.5,
		},
	}

	tl.tick(lane.TickPayload{Dt: 0.2, CurrentTick: 0})

	assert.Empty(t, tl.Cars())

	select {
	case msg := <-rightInbox:
		assert.Equal(t, lane.MsgAddCar, msg.Kind)
	default:
		t.Fatal("expected the right lane to receive the arriving car")
	}
	_ = rightID
}

// A car that stays well within bounds remains resident and keeps advancing
// longitudinally tick over tick.
func TestCarWithinBoundsStaysResidentAndAdvances(t *testing.T) {
	tl, _, _, _, _, _ := newTestTransferLane(t)
	tl.addCar(obstacle.LaneCar{Obstacle: obstacle.Obstacle{Position: ordered.New(10), Velocity: 5, MaxVelocity: 20}})

	for i := uint64(0); i < 10; i++ {
		tl.tick(lane.TickPayload{Dt: 0.1, CurrentTick: i})
	}

	require.Len(t, tl.Cars(), 1)
	assert.Greater(t, tl.Cars()[0].Position.Value(), 10.0)
}
