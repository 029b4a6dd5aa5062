package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lanesim/actorsys"
	"lanesim/geom/ordered"
	"lanesim/lane"
	"lanesim/obstacle"
)

func TestHubBatchesLatestSnapshotPerLane(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	laneUpdates := make(chan lane.LaneSnapshot, 4)
	h := NewHub(ctx, []<-chan lane.LaneSnapshot{laneUpdates}, nil, 5*time.Millisecond)

	id := actorsys.ID{Kind: "lane", InstanceID: 0}
	laneUpdates <- lane.LaneSnapshot{ID: id, Length: 100, NumCars: 1, Cars: []obstacle.LaneCar{
		{Obstacle: obstacle.Obstacle{Position: ordered.New(10), Velocity: 5, MaxVelocity: 20}},
	}}
	laneUpdates <- lane.LaneSnapshot{ID: id, Length: 100, NumCars: 2, Cars: []obstacle.LaneCar{
		{Obstacle: obstacle.Obstacle{Position: ordered.New(12), Velocity: 6, MaxVelocity: 20}},
		{Obstacle: obstacle.Obstacle{Position: ordered.New(20), Velocity: 7, MaxVelocity: 20}},
	}}

	assert.Eventually(t, func() bool {
		snap := h.Snapshot()
		return len(snap.Lanes) == 1 && snap.Lanes[0].NumCars == 2
	}, time.Second, time.Millisecond)
}

func TestHubSubscribeReceivesBroadcastUpdate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	laneUpdates := make(chan lane.LaneSnapshot, 4)
	h := NewHub(ctx, []<-chan lane.LaneSnapshot{laneUpdates}, nil, 5*time.Millisecond)

	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	laneUpdates <- lane.LaneSnapshot{
		ID: actorsys.ID{Kind: "lane", InstanceID: 0}, Length: 50, NumCars: 0,
	}

	select {
	case update := <-sub:
		assert.Len(t, update.Lanes, 1)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast update")
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub(ctx, nil, nil, 5*time.Millisecond)
	sub := h.Subscribe()
	h.Unsubscribe(sub)

	_, open := <-sub
	assert.False(t, open)
}
