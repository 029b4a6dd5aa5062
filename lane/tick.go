package lane

import (
	"math"
	"sort"

	"lanesim/idm"
	"lanesim/obstacle"
)

// tick runs one simulation step, per spec.md §4.3.
func (l *Lane) tick(p TickPayload) {
	l.inConstruction = math.Min(l.length, l.inConstruction+l.tunables.InConstructionRate*p.Dt)

	runTraffic := p.CurrentTick%l.tunables.Throttle == l.id.InstanceID%l.tunables.Throttle

	if runTraffic {
		l.recomputeAccelerations()
		l.interactionObstacles = nil
	}

	l.integrate(p.Dt)
	l.drainPastEnd()
	l.emitToPartners(p.CurrentTick)

	if l.publish != nil {
		select {
		case l.publish <- l.Snapshot():
		default:
		}
	}
}

// recomputeAccelerations implements the traffic-logic phase: walk cars in
// order, maintaining a single forward cursor into the sorted interaction
// obstacles so each car's acceleration is the min of following the car
// ahead on this lane and following the next overlap obstacle ahead.
func (l *Lane) recomputeAccelerations() {
	sort.SliceStable(l.interactionObstacles, func(i, j int) bool {
		return l.interactionObstacles[i].Position.Less(l.interactionObstacles[j].Position)
	})

	cursor := 0
	for i := range l.cars {
		car := &l.cars[i]

		var leader obstacle.Obstacle
		if i+1 < len(l.cars) {
			leader = l.cars[i+1].Obstacle
		} else {
			leader = obstacle.FarAhead()
		}
		aLeader := idm.Acceleration(car.Obstacle, leader)

		for cursor < len(l.interactionObstacles) && l.interactionObstacles[cursor].Position.Less(car.Position) {
			cursor++
		}

		aOverlap := math.Inf(1)
		if cursor < len(l.interactionObstacles) {
			aOverlap = idm.Acceleration(car.Obstacle, l.interactionObstacles[cursor])
		}

		car.Acceleration = math.Min(aLeader, aOverlap)
	}
}

// integrate advances every car's kinematics by one step, per spec.md §4.3
// step 4.
func (l *Lane) integrate(dt float64) {
	for i := range l.cars {
		car := &l.cars[i]
		car.Position = car.Position.Add(dt * car.Velocity)
		car.Velocity = clamp(car.Velocity+dt*car.Acceleration, 0, car.MaxVelocity)
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

// drainPastEnd repeatedly hands the tail car off to the canonical Next
// successor (the first Next interaction in insertion order) while it lies
// past the end of the lane. Cars with no successor are dropped, per
// spec.md §4.3 step 5 / §7.
func (l *Lane) drainPastEnd() {
	for len(l.cars) > 0 {
		last := l.cars[len(l.cars)-1]
		if last.Position.Value() <= l.length {
			break
		}

		if next, ok := l.firstNext(); ok {
			offset := -l.length + next.NextPartnerStart
			l.swarm.Send(next.Partner, Message{Kind: MsgAddCar, Car: last.OffsetBy(offset)})
		}
		l.cars = l.cars[:len(l.cars)-1]
	}
}

// firstNext returns the canonical Next interaction: the first one in
// insertion order, per spec.md §3.
func (l *Lane) firstNext() (Interaction, bool) {
	for _, in := range l.interactions {
		if in.Kind == KindNext {
			return in, true
		}
	}
	return Interaction{}, false
}

// emitToPartners pushes outgoing obstacle/handoff messages to every
// neighbour whose traffic phase matches this tick, per spec.md §4.3 step 6.
func (l *Lane) emitToPartners(currentTick uint64) {
	for _, in := range l.interactions {
		if currentTick%l.tunables.Throttle != in.Partner.InstanceID%l.tunables.Throttle {
			continue
		}

		switch in.Kind {
		case KindOverlap:
			l.emitOverlap(in)
		case KindPrevious:
			l.emitPrevious(in)
		case KindNext:
			// Cars moving forward are handled by drainPastEnd; nothing to
			// emit backwards here (reserved for future merge logic, per
			// the original's TODO).
		}
	}
}

func (l *Lane) emitOverlap(in Interaction) {
	switch in.OverlapKind {
	case Parallel:
		for _, car := range l.cars {
			pos := car.Position.Value()
			if pos >= in.OverlapStart && pos < in.OverlapEnd {
				obs := car.Obstacle.OffsetBy(-in.OverlapStart + in.OverlapPartnerStart)
				l.swarm.Send(in.Partner, Message{Kind: MsgAddInteractionObstacle, Obstacle: obs})
			}
		}
	case Conflicting:
		for _, car := range l.cars {
			pos := car.Position.Value()
			if pos > in.OverlapStart && pos < in.OverlapEnd {
				blocking := obstacle.Obstacle{Position: 0, Velocity: 0, MaxVelocity: 0}.OffsetBy(in.OverlapPartnerStart)
				l.swarm.Send(in.Partner, Message{Kind: MsgAddInteractionObstacle, Obstacle: blocking})
				break
			}
		}
	}
}

func (l *Lane) emitPrevious(in Interaction) {
	for _, car := range l.cars {
		if car.Position.Value() > in.PreviousStart {
			obs := car.Obstacle.OffsetBy(-in.PreviousStart + in.PreviousPartnerLength)
			l.swarm.Send(in.Partner, Message{Kind: MsgAddInteractionObstacle, Obstacle: obs})
			return
		}
	}
}
