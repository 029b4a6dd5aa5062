package lane

import (
	"lanesim/actorsys"
	"lanesim/geom"
	"lanesim/obstacle"
)

// InteractionKind discriminates the three persistent relationships a lane
// can hold with a partner lane, per spec.md §3.
type InteractionKind int

const (
	KindNext InteractionKind = iota
	KindPrevious
	KindOverlap
)

// OverlapKind discriminates the two ways two lanes can share physical
// space.
type OverlapKind int

const (
	Parallel OverlapKind = iota
	Conflicting
)

// Interaction is a directed relationship from this lane to Partner. Only
// the fields relevant to Kind are meaningful; this mirrors the original's
// enum-of-variants with flat fields, which is the idiomatic Go substitute
// for a sum type here (Design Note "Self-referential world graph").
type Interaction struct {
	Partner actorsys.ID
	Kind    InteractionKind

	// Next
	NextPartnerStart float64

	// Previous
	PreviousStart         float64
	PreviousPartnerLength float64

	// Overlap
	OverlapStart         float64
	OverlapEnd           float64
	OverlapPartnerStart  float64
	OverlapPartnerEnd    float64
	OverlapKind          OverlapKind
}

// BuildableRef is the opaque handle the planning layer uses to correlate a
// build request with the lane it produced; the core never interprets it.
type BuildableRef string

// Reporter is the planning-layer collaborator notified once after
// AdvertiseForConnectionAndReport completes (spec.md §6 "Outbound
// reports"). The planning layer itself is out of scope; this interface is
// the whole of the contract the core needs from it.
type Reporter interface {
	ReportLaneBuilt(laneID actorsys.ID, ref BuildableRef)
}

// LaneSnapshot is a point-in-time, read-only view of a lane's public state,
// used by RenderHook and the telemetry package. It deliberately excludes
// the path geometry itself (scene tessellation is the rendering
// collaborator's job, not this core's).
type LaneSnapshot struct {
	ID       actorsys.ID
	Length   float64
	NumCars  int
	Cars     []obstacle.LaneCar
}

// RenderHook is the rendering collaborator's notification contract
// (spec.md §6 "on_build(lane)"/"on_unbuild(lane)"). It is an interface
// purely so the rendering/tessellation layer can remain out of scope for
// this module, per the Design Note and spec.md §1.
type RenderHook interface {
	OnBuild(snap LaneSnapshot)
	OnUnbuild(id actorsys.ID)
}

// NopReporter and NopRenderHook are no-op implementations, useful for tests
// and for lanes that have no planning/rendering collaborator wired in.
type NopReporter struct{}

func (NopReporter) ReportLaneBuilt(actorsys.ID, BuildableRef) {}

type NopRenderHook struct{}

func (NopRenderHook) OnBuild(LaneSnapshot)        {}
func (NopRenderHook) OnUnbuild(actorsys.ID)       {}

// MessageKind discriminates the envelope carried on a Lane's single inbox
// channel. Go actors receive one concrete type per channel, unlike the
// original's per-type Recipient<T> dispatch, so every message a Lane can
// receive is folded into one tagged Message (SPEC_FULL.md §4.5 expansion
// note).
type MessageKind int

const (
	MsgTick MessageKind = iota
	MsgAddCar
	MsgAddInteractionObstacle
	MsgConnect
	MsgDisconnect
	MsgAdvertise
	MsgUnbuild
)

// TickPayload is the Tick message body, per spec.md §6.
type TickPayload struct {
	Dt          float64
	CurrentTick uint64
}

// ConnectPayload is the Connect message body, per spec.md §4.5.
type ConnectPayload struct {
	OtherID     actorsys.ID
	OtherPath   geom.Path
	ReplyNeeded bool
}

// DisconnectPayload is the Disconnect message body, per spec.md §4.5.
type DisconnectPayload struct {
	OtherID actorsys.ID
}

// AdvertisePayload is the AdvertiseForConnectionAndReport message body.
type AdvertisePayload struct {
	ReportTo Reporter
	ReportAs BuildableRef
}

// Message is the single envelope type carried on a Lane's inbox.
type Message struct {
	Kind       MessageKind
	Tick       TickPayload
	Car        obstacle.LaneCar
	Obstacle   obstacle.Obstacle
	Connect    ConnectPayload
	Disconnect DisconnectPayload
	Advertise  AdvertisePayload
}
