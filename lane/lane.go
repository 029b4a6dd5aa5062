// Package lane implements the Lane actor: a road lane that owns a path, a
// sorted list of resident cars, its connectivity to neighbouring lanes, and
// the throttled per-tick traffic logic that advances those cars and
// exchanges obstacle/handoff messages with neighbours.
package lane

import (
	"sort"

	"lanesim/actorsys"
	"lanesim/config"
	"lanesim/geom"
	"lanesim/obstacle"
)

// Swarm is the collective of every Lane actor; Connect/Disconnect
// broadcasts travel through it.
type Swarm = actorsys.Swarm[Message]

// NewSwarm returns an empty Lane swarm.
func NewSwarm() *Swarm { return actorsys.NewSwarm[Message]() }

// Lane is a single road lane. Every field below is private: it is mutated
// only by this lane's own Run goroutine, never reached into from outside,
// per the Design Note "Actors, not shared memory".
type Lane struct {
	id     actorsys.ID
	path   geom.Path
	length float64

	inConstruction float64
	interactions   []Interaction
	cars           []obstacle.LaneCar

	// interactionObstacles accumulates Add::InteractionObstacle messages
	// received this tick; it is sorted and drained during the lane's own
	// traffic-logic phase, per spec.md §3.
	interactionObstacles []obstacle.Obstacle

	swarm      *Swarm
	tunables   config.Tunables
	render     RenderHook

	// publish, when non-nil, receives a snapshot at the end of every tick
	// this lane runs. Only this lane's own goroutine ever sends on it, so
	// telemetry consumers never need to synchronize with lane state
	// directly, per the Design Note "Actors, not shared memory".
	publish chan<- LaneSnapshot
}

// SetPublish wires a channel that receives a LaneSnapshot at the end of
// every tick. It must be called before the lane starts running.
func (l *Lane) SetPublish(ch chan<- LaneSnapshot) {
	l.publish = ch
}

// New constructs a Lane with the given path, joins it to swarm, and returns
// both the Lane and the inbox it must be Run on. The caller is responsible
// for starting actorsys.Run(ctx, inbox, lane.Receive) on its own goroutine.
func New(path geom.Path, swarm *Swarm, tun config.Tunables, render RenderHook) (*Lane, actorsys.Mailbox[Message]) {
	if render == nil {
		render = NopRenderHook{}
	}
	id := actorsys.NextID("lane")
	l := &Lane{
		id:       id,
		path:     path,
		length:   path.Length(),
		swarm:    swarm,
		tunables: tun,
		render:   render,
	}
	inbox := swarm.Join(id)
	return l, inbox
}

// ID returns the lane's actor identity.
func (l *Lane) ID() actorsys.ID { return l.id }

// Length returns the lane's path length.
func (l *Lane) Length() float64 { return l.length }

// InConstruction returns the lane's current construction-animation progress.
func (l *Lane) InConstruction() float64 { return l.inConstruction }

// Interactions returns a copy of the lane's current interactions, for
// testing and telemetry.
func (l *Lane) Interactions() []Interaction {
	out := make([]Interaction, len(l.interactions))
	copy(out, l.interactions)
	return out
}

// Cars returns a copy of the lane's current cars, sorted by position.
func (l *Lane) Cars() []obstacle.LaneCar {
	out := make([]obstacle.LaneCar, len(l.cars))
	copy(out, l.cars)
	return out
}

// Snapshot returns a read-only view of the lane's public state.
func (l *Lane) Snapshot() LaneSnapshot {
	return LaneSnapshot{ID: l.id, Length: l.length, NumCars: len(l.cars), Cars: l.Cars()}
}

// Receive dispatches a single message to the appropriate handler. It is the
// only entry point into a Lane's mutable state, and is only ever called
// from the goroutine running actorsys.Run for this lane's inbox.
func (l *Lane) Receive(msg Message) actorsys.Fate {
	switch msg.Kind {
	case MsgTick:
		l.tick(msg.Tick)
	case MsgAddCar:
		l.addCar(msg.Car)
	case MsgAddInteractionObstacle:
		l.interactionObstacles = append(l.interactionObstacles, msg.Obstacle)
	case MsgConnect:
		l.handleConnect(msg.Connect)
	case MsgDisconnect:
		l.handleDisconnect(msg.Disconnect)
	case MsgAdvertise:
		l.handleAdvertise(msg.Advertise)
	case MsgUnbuild:
		l.handleUnbuild()
		return actorsys.Die
	}
	return actorsys.Live
}

// addCar appends car and re-sorts cars by position, per spec.md §4.3
// "Add::Car(car) — append car, re-sort by position".
func (l *Lane) addCar(car obstacle.LaneCar) {
	l.cars = append(l.cars, car)
	l.sortCars()
}

func (l *Lane) sortCars() {
	sort.SliceStable(l.cars, func(i, j int) bool {
		return l.cars[i].Position.Less(l.cars[j].Position)
	})
}
