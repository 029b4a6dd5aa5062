package lane

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanesim/actorsys"
	"lanesim/config"
	"lanesim/geom"
	"lanesim/geom/ordered"
	"lanesim/obstacle"
)

func straightPath(length float64) geom.Path {
	return geom.NewPolyline([]geom.Point{{X: 0, Y: 0}, {X: length, Y: 0}})
}

func newTestLane(t *testing.T, length float64) (*Lane, *Swarm) {
	t.Helper()
	sw := NewSwarm()
	l, _ := New(straightPath(length), sw, config.Defaults(), nil)
	return l, sw
}

// S1: a straight handoff. Two end-to-end lanes connect Next/Previous, and a
// car that drains past the end of the first arrives on the second.
func TestStraightHandoffConnectsNextAndPrevious(t *testing.T) {
	sw := NewSwarm()
	tun := config.Defaults()

	first, firstInbox := New(straightPath(100), sw, tun, nil)
	second, secondInbox := New(geom.NewPolyline([]geom.Point{{X: 100, Y: 0}, {X: 200, Y: 0}}), sw, tun, nil)

	first.handleConnect(ConnectPayload{OtherID: second.ID(), OtherPath: second.path, ReplyNeeded: true})
	require.Len(t, first.Interactions(), 1)
	assert.Equal(t, KindNext, first.Interactions()[0].Kind)

	// the reply the first lane sent to the second
	msg := <-secondInbox
	second.Receive(msg)
	require.Len(t, second.Interactions(), 1)
	assert.Equal(t, KindPrevious, second.Interactions()[0].Kind)

	_ = firstInbox
}

// S1, continued: a car ticking past the end of the first lane is handed off
// to the second lane's inbox at exactly the position its Next interaction's
// NextPartnerStart implies, not just with a KindNext interaction recorded.
func TestStraightHandoffDeliversExactOffsetPosition(t *testing.T) {
	sw := NewSwarm()
	tun := config.Defaults()

	first, _ := New(straightPath(100), sw, tun, nil)
	second, secondInbox := New(geom.NewPolyline([]geom.Point{{X: 100, Y: 0}, {X: 200, Y: 0}}), sw, tun, nil)

	first.handleConnect(ConnectPayload{OtherID: second.ID(), OtherPath: second.path, ReplyNeeded: false})
	require.Len(t, first.Interactions(), 1)
	require.Equal(t, KindNext, first.Interactions()[0].Kind)
	require.Equal(t, 0.0, first.Interactions()[0].NextPartnerStart)

	first.addCar(obstacle.LaneCar{
		Obstacle: obstacle.Obstacle{Position: ordered.New(98), Velocity: 5, MaxVelocity: 20},
	})

	first.tick(TickPayload{Dt: 1, CurrentTick: 0})
	assert.Empty(t, first.Cars(), "the car drains off the end of the first lane")

	msg := <-secondInbox
	require.Equal(t, MsgAddCar, msg.Kind)
	assert.Equal(t, 3.0, msg.Car.Position.Value(), "98 + 5*1 dt = 103, offset by -length(100) + NextPartnerStart(0) = 3")
}

// S2: a conflicting intersection between two crossing lanes yields exactly
// one Overlap interaction of kind Conflicting on each side.
func TestCrossingLanesConnectAsConflictingOverlap(t *testing.T) {
	sw := NewSwarm()
	tun := config.Defaults()

	horizontal, _ := New(geom.NewPolyline([]geom.Point{{X: -50, Y: 0}, {X: 50, Y: 0}}), sw, tun, nil)
	vertical, verticalInbox := New(geom.NewPolyline([]geom.Point{{X: 0, Y: -50}, {X: 0, Y: 50}}), sw, tun, nil)

	horizontal.handleConnect(ConnectPayload{OtherID: vertical.ID(), OtherPath: vertical.path, ReplyNeeded: true})
	require.Len(t, horizontal.Interactions(), 1)
	assert.Equal(t, KindOverlap, horizontal.Interactions()[0].Kind)
	assert.Equal(t, Conflicting, horizontal.Interactions()[0].OverlapKind)

	msg := <-verticalInbox
	vertical.Receive(msg)
	require.Len(t, vertical.Interactions(), 1)
	assert.Equal(t, KindOverlap, vertical.Interactions()[0].Kind)
	assert.Equal(t, Conflicting, vertical.Interactions()[0].OverlapKind)
}

// Invariant 4 / S6: a single car advancing alone accelerates toward its max
// velocity and its position increases tick over tick.
func TestLoneCarAcceleratesTowardMaxVelocity(t *testing.T) {
	l, _ := newTestLane(t, 1000)
	l.addCar(obstacle.LaneCar{
		Obstacle: obstacle.Obstacle{Position: ordered.New(0), Velocity: 5, MaxVelocity: 20},
	})

	var lastPos float64
	for tickN := uint64(0); tickN < 50; tickN++ {
		l.tick(TickPayload{Dt: 0.1, CurrentTick: tickN})
		cars := l.Cars()
		require.Len(t, cars, 1)
		assert.GreaterOrEqual(t, cars[0].Position.Value(), lastPos)
		lastPos = cars[0].Position.Value()
	}
	assert.Greater(t, l.Cars()[0].Velocity, 5.0)
}

// Invariant 1: a lane's traffic-logic phase only runs on the tick matching
// its throttle slot; interaction obstacles otherwise persist untouched.
func TestTrafficPhaseIsThrottled(t *testing.T) {
	l, _ := newTestLane(t, 1000)
	l.tunables.Throttle = 4
	l.id = actorsys.ID{Kind: "lane", InstanceID: 2}
	l.interactionObstacles = []obstacle.Obstacle{{Position: ordered.New(0), Velocity: 0, MaxVelocity: 0}}

	l.tick(TickPayload{Dt: 0.1, CurrentTick: 1}) // 1 % 4 != 2 % 4
	assert.Len(t, l.interactionObstacles, 1, "obstacles survive on a tick outside this lane's phase")

	l.tick(TickPayload{Dt: 0.1, CurrentTick: 2}) // 2 % 4 == 2 % 4
	assert.Len(t, l.interactionObstacles, 0, "obstacles are cleared on this lane's own phase")
}

// S5 / invariant: disconnecting a partner removes exactly its interactions.
func TestDisconnectRemovesOnlyMatchingPartner(t *testing.T) {
	l, _ := newTestLane(t, 100)
	a := actorsys.ID{Kind: "lane", InstanceID: 10}
	b := actorsys.ID{Kind: "lane", InstanceID: 11}
	l.interactions = []Interaction{
		{Partner: a, Kind: KindNext},
		{Partner: b, Kind: KindOverlap, OverlapKind: Conflicting},
	}

	l.handleDisconnect(DisconnectPayload{OtherID: a})

	require.Len(t, l.Interactions(), 1)
	assert.Equal(t, b, l.Interactions()[0].Partner)
}
