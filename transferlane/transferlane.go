// Package transferlane implements the TransferLane actor: a lateral
// connector between two parallel lanes, where resident cars drift sideways
// from -1 (fully left) to +1 (fully right) while continuing to move
// longitudinally, and arrive on whichever side they are closer to, per
// spec.md §4.4.
package transferlane

import (
	"sort"

	"lanesim/actorsys"
	"lanesim/config"
	"lanesim/geom"
	"lanesim/lane"
	"lanesim/obstacle"
)

// TransferLane reuses lane.Message and lane.Swarm: both actors answer the
// same Tick/Add::Car/Add::InteractionObstacle envelope, so a lane can hand a
// car to a transfer lane (or vice versa) without the sender caring which
// concrete actor is on the other end, per the Design Note "Self-referential
// world graph".
type TransferLane struct {
	id     actorsys.ID
	path   geom.Path
	length float64

	left      actorsys.ID
	leftStart float64
	right     actorsys.ID
	rightStart float64

	cars                 []obstacle.TransferringLaneCar
	interactionObstacles []obstacle.Obstacle

	swarm    *lane.Swarm
	tunables config.Tunables

	// publish, when non-nil, receives a snapshot at the end of every tick;
	// see lane.Lane.SetPublish.
	publish chan<- Snapshot
}

// Snapshot is a point-in-time, read-only view of a transfer lane's public
// state, used by telemetry.
type Snapshot struct {
	ID      actorsys.ID
	Length  float64
	NumCars int
	Cars    []obstacle.TransferringLaneCar
}

// SetPublish wires a channel that receives a Snapshot at the end of every
// tick. It must be called before the transfer lane starts running.
func (t *TransferLane) SetPublish(ch chan<- Snapshot) {
	t.publish = ch
}

// Snapshot returns a read-only view of the transfer lane's public state.
func (t *TransferLane) Snapshot() Snapshot {
	return Snapshot{ID: t.id, Length: t.length, NumCars: len(t.cars), Cars: t.Cars()}
}

// New constructs a TransferLane bridging left and right, joins it to swarm,
// and returns both the actor and the inbox it must be Run on. leftStart and
// rightStart are the arc-length offsets on left and right at which a car
// reappears: they are added to a car's transfer-lane position when it is
// handed to that side.
func New(path geom.Path, left actorsys.ID, leftStart float64, right actorsys.ID, rightStart float64, swarm *lane.Swarm, tun config.Tunables) (*TransferLane, actorsys.Mailbox[lane.Message]) {
	id := actorsys.NextID("transferlane")
	t := &TransferLane{
		id:         id,
		path:       path,
		length:     path.Length(),
		left:       left,
		leftStart:  leftStart,
		right:      right,
		rightStart: rightStart,
		swarm:      swarm,
		tunables:   tun,
	}
	inbox := swarm.Join(id)
	return t, inbox
}

// ID returns the transfer lane's actor identity.
func (t *TransferLane) ID() actorsys.ID { return t.id }

// Length returns the transfer lane's path length.
func (t *TransferLane) Length() float64 { return t.length }

// Cars returns a copy of the transfer lane's current cars, sorted by
// position.
func (t *TransferLane) Cars() []obstacle.TransferringLaneCar {
	out := make([]obstacle.TransferringLaneCar, len(t.cars))
	copy(out, t.cars)
	return out
}

// Receive dispatches a single message. Only Tick, Add::Car, and
// Add::InteractionObstacle are meaningful to a transfer lane; Connect,
// Disconnect, Advertise, and Unbuild belong to the lane network graph that
// a transfer lane sits beside, not in, per spec.md §4.4.
func (t *TransferLane) Receive(msg lane.Message) actorsys.Fate {
	switch msg.Kind {
	case lane.MsgTick:
		t.tick(msg.Tick)
	case lane.MsgAddCar:
		t.addCar(msg.Car)
	case lane.MsgAddInteractionObstacle:
		t.interactionObstacles = append(t.interactionObstacles, msg.Obstacle)
	}
	return actorsys.Live
}

// addCar enters car onto the transfer lane at the left extreme, whichever
// side it arrived from, per
// spec.md §4.4 "A car newly placed onto a transfer lane starts at
// transfer_position = -1".
func (t *TransferLane) addCar(car obstacle.LaneCar) {
	t.cars = append(t.cars, obstacle.TransferringLaneCar{
		LaneCar:              car,
		TransferPosition:     -1,
		TransferVelocity:     0,
		TransferAcceleration: t.tunables.LateralADefault,
	})
	t.sortCars()
}

func (t *TransferLane) sortCars() {
	sort.SliceStable(t.cars, func(i, j int) bool {
		return t.cars[i].Position.Less(t.cars[j].Position)
	})
}
