package lane

import (
	"sort"

	"lanesim/geom"
)

// handleAdvertise implements AdvertiseForConnectionAndReport: broadcast
// Connect to every lane, report back to the planning layer, and notify the
// rendering collaborator, per spec.md §4.5.
func (l *Lane) handleAdvertise(p AdvertisePayload) {
	l.swarm.Broadcast(Message{
		Kind: MsgConnect,
		Connect: ConnectPayload{
			OtherID:     l.id,
			OtherPath:   l.path,
			ReplyNeeded: true,
		},
	})
	if p.ReportTo != nil {
		p.ReportTo.ReportLaneBuilt(l.id, p.ReportAs)
	}
	l.render.OnBuild(l.Snapshot())
}

// handleConnect implements Connect: decide Next/Previous/Overlap relations
// to other_id independently, per spec.md §4.5.
func (l *Lane) handleConnect(p ConnectPayload) {
	if p.OtherID == l.id {
		return
	}

	if in, ok := l.nextRelation(p.OtherPath); ok {
		in.Partner = p.OtherID
		l.interactions = append(l.interactions, in)
	}

	if in, ok := l.previousRelation(p.OtherPath); ok {
		in.Partner = p.OtherID
		l.interactions = append(l.interactions, in)
	}

	if in, ok := l.overlapRelation(p.OtherPath); ok {
		in.Partner = p.OtherID
		l.interactions = append(l.interactions, in)
	}

	if p.ReplyNeeded {
		l.swarm.Send(p.OtherID, Message{
			Kind: MsgConnect,
			Connect: ConnectPayload{
				OtherID:     l.id,
				OtherPath:   l.path,
				ReplyNeeded: false,
			},
		})
	}
}

// nextRelation decides whether otherPath is this lane's successor: either
// its start touches our end directly, or our end projects onto it within
// tolerance.
func (l *Lane) nextRelation(otherPath geom.Path) (Interaction, bool) {
	eps := l.tunables.ConnectionTolerance
	selfEnd := l.path.End()

	if geom.PointsRoughlyWithin(otherPath.Start(), selfEnd, eps) {
		return Interaction{Kind: KindNext, NextPartnerStart: 0}, true
	}
	if s, ok := otherPath.Project(selfEnd); ok {
		if geom.PointsRoughlyWithin(otherPath.Along(s), selfEnd, eps) {
			return Interaction{Kind: KindNext, NextPartnerStart: s}, true
		}
	}
	return Interaction{}, false
}

// previousRelation decides whether otherPath is this lane's predecessor:
// symmetric to nextRelation.
func (l *Lane) previousRelation(otherPath geom.Path) (Interaction, bool) {
	eps := l.tunables.ConnectionTolerance
	selfStart := l.path.Start()
	otherEnd := otherPath.End()

	if geom.PointsRoughlyWithin(otherEnd, selfStart, eps) {
		return Interaction{Kind: KindPrevious, PreviousStart: 0, PreviousPartnerLength: otherPath.Length()}, true
	}
	if s, ok := l.path.Project(otherEnd); ok {
		if geom.PointsRoughlyWithin(l.path.Along(s), otherEnd, eps) {
			return Interaction{Kind: KindPrevious, PreviousStart: s, PreviousPartnerLength: otherPath.Length()}, true
		}
	}
	return Interaction{}, false
}

// overlapRelation decides whether this lane's path physically overlaps
// otherPath, by intersecting the outlines of equal-width bands around each.
func (l *Lane) overlapRelation(otherPath geom.Path) (Interaction, bool) {
	width := l.tunables.BandWidth
	selfBand := geom.NewBand(l.path, width)
	otherBand := geom.NewBand(otherPath, width)

	intersections := geom.Intersect(selfBand.Outline(), otherBand.Outline())
	if len(intersections) < 2 {
		return Interaction{}, false
	}

	type located struct {
		along geom.Intersection
		dist  float64
	}
	located_ := make([]located, len(intersections))
	for i, isec := range intersections {
		located_[i] = located{along: isec, dist: selfBand.OutlineDistanceToPathDistance(isec.AlongA)}
	}
	sort.Slice(located_, func(i, j int) bool { return located_[i].dist < located_[j].dist })

	entry := located_[0]
	exit := located_[len(located_)-1]

	// Bands of lanes that only meet end to end touch at their end caps; the
	// resulting window has no length and is not an overlap.
	if exit.dist-entry.dist <= l.tunables.ConnectionTolerance {
		return Interaction{}, false
	}

	otherEntryDist := otherBand.OutlineDistanceToPathDistance(entry.along.AlongB)
	otherExitDist := otherBand.OutlineDistanceToPathDistance(exit.along.AlongB)

	if otherEntryDist < otherExitDist {
		return Interaction{
			Kind:                KindOverlap,
			OverlapStart:        entry.dist,
			OverlapEnd:          exit.dist,
			OverlapPartnerStart: otherEntryDist,
			OverlapPartnerEnd:   otherExitDist,
			OverlapKind:         Parallel,
		}, true
	}
	return Interaction{
		Kind:                KindOverlap,
		OverlapStart:        entry.dist,
		OverlapEnd:          exit.dist,
		OverlapPartnerStart: otherExitDist,
		OverlapPartnerEnd:   otherEntryDist,
		OverlapKind:         Conflicting,
	}, true
}

// handleDisconnect drops every interaction whose partner is other_id, per
// spec.md §4.5.
func (l *Lane) handleDisconnect(p DisconnectPayload) {
	kept := l.interactions[:0]
	for _, in := range l.interactions {
		if in.Partner != p.OtherID {
			kept = append(kept, in)
		}
	}
	l.interactions = kept
}

// handleUnbuild broadcasts Disconnect to every lane and notifies the
// rendering collaborator; the caller (Receive) is responsible for
// terminating the actor via Fate::Die.
func (l *Lane) handleUnbuild() {
	l.swarm.Broadcast(Message{Kind: MsgDisconnect, Disconnect: DisconnectPayload{OtherID: l.id}})
	l.render.OnUnbuild(l.id)
}
