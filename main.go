/*
lanesim is a small actor-per-lane traffic micro-simulation: every road lane
and transfer lane runs on its own goroutine, driven by a shared tick clock,
exchanging car handoffs and following-distance obstacles over message
channels rather than shared memory. This demo wires up a fixed two-lane
straight road, a crossing lane, and a transfer lane between two parallel
lanes, starts the simulation, and serves its live state over a websocket and
a plain-text debug endpoint.

This is a personal exploration of the actor model for continuous
simulation, not a production traffic engine; the lane network below is
hand-built rather than loaded from a planning layer, which is explicitly
out of scope.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"lanesim/actorsys"
	"lanesim/config"
	"lanesim/geom"
	"lanesim/geom/ordered"
	"lanesim/lane"
	"lanesim/obstacle"
	"lanesim/telemetry"
	"lanesim/transferlane"
)

var (
	cfgPath *string
	addr    *string
)

func init() {
	cfgPath = flag.String("config", "./config.yaml", "path to the tunables YAML file")
	addr = flag.String("addr", ":8080", "telemetry server listen address")
	flag.Parse()
}

// network is the fixed demo lane graph: two straight lanes end to end, a
// perpendicular lane crossing the second, and a transfer lane bridging the
// first lane to a parallel neighbour.
type network struct {
	sys *actorsys.System
	sw  *lane.Swarm

	lanes         []*lane.Lane
	transferLanes []*transferlane.TransferLane

	laneUpdates    []<-chan lane.LaneSnapshot
	transferUpdates []<-chan transferlane.Snapshot
}

func buildNetwork(sys *actorsys.System, tun config.Tunables) *network {
	sw := lane.NewSwarm()
	n := &network{sys: sys, sw: sw}

	straight1 := geom.NewPolyline([]geom.Point{{X: 0, Y: 0}, {X: 200, Y: 0}})
	straight2 := geom.NewPolyline([]geom.Point{{X: 200, Y: 0}, {X: 400, Y: 0}})
	crossing := geom.NewPolyline([]geom.Point{{X: 300, Y: -100}, {X: 300, Y: 100}})
	parallel := geom.NewPolyline([]geom.Point{{X: 0, Y: 10}, {X: 200, Y: 10}})

	l1 := n.addLane(straight1, tun)
	l2 := n.addLane(straight2, tun)
	l3 := n.addLane(crossing, tun)
	l4 := n.addLane(parallel, tun)

	n.connect(l1, straight1, l2)
	n.connect(l2, straight2, l3)
	n.connect(l1, straight1, l4)

	transferPath := geom.NewPolyline([]geom.Point{{X: 0, Y: 5}, {X: 200, Y: 5}})
	n.addTransferLane(transferPath, l1.ID(), 0, l4.ID(), 0, tun)

	n.sw.Send(l1.ID(), lane.Message{Kind: lane.MsgAddCar, Car: obstacle.LaneCar{
		Obstacle: obstacle.Obstacle{Position: ordered.New(10), Velocity: 8, MaxVelocity: 20},
	}})

	return n
}

func (n *network) addLane(path geom.Path, tun config.Tunables) *lane.Lane {
	l, inbox := lane.New(path, n.sw, tun, nil)
	updates := make(chan lane.LaneSnapshot, 4)
	l.SetPublish(updates)

	n.lanes = append(n.lanes, l)
	n.laneUpdates = append(n.laneUpdates, updates)

	n.sys.Go(func() error {
		actorsys.Run(n.sys.Context(), inbox, l.Receive)
		return nil
	})
	return l
}

func (n *network) addTransferLane(path geom.Path, left actorsys.ID, leftStart float64, right actorsys.ID, rightStart float64, tun config.Tunables) *transferlane.TransferLane {
	t, inbox := transferlane.New(path, left, leftStart, right, rightStart, n.sw, tun)
	updates := make(chan transferlane.Snapshot, 4)
	t.SetPublish(updates)

	n.transferLanes = append(n.transferLanes, t)
	n.transferUpdates = append(n.transferUpdates, updates)

	n.sys.Go(func() error {
		actorsys.Run(n.sys.Context(), inbox, t.Receive)
		return nil
	})
	return t
}

// connect announces a (whose construction path is aPath) to b via a single
// Connect message; b's own handleConnect replies with its own real path
// when ReplyNeeded is set, so a discovers the relationship too without this
// demo needing to know b's geometry. This bypasses
// AdvertiseForConnectionAndReport's broadcast-to-everyone since the demo's
// graph is hand-built rather than discovered.
func (n *network) connect(a *lane.Lane, aPath geom.Path, b *lane.Lane) {
	n.sw.Send(b.ID(), lane.Message{Kind: lane.MsgConnect, Connect: lane.ConnectPayload{
		OtherID: a.ID(), OtherPath: aPath, ReplyNeeded: true,
	}})
}

func tickLoop(ctx context.Context, tun config.Tunables, sw *lane.Swarm) error {
	var currentTick uint64
	for range channerics.NewTicker(ctx.Done(), tun.TickInterval) {
		sw.Broadcast(lane.Message{Kind: lane.MsgTick, Tick: lane.TickPayload{
			Dt:          tun.TickInterval.Seconds(),
			CurrentTick: currentTick,
		}})
		currentTick++
	}
	return nil
}

func run() error {
	tun, err := config.FromYAML(*cfgPath)
	if err != nil {
		tun = config.Defaults()
	}

	appCtx, appCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer appCancel()

	sys := actorsys.NewSystem(appCtx)

	net := buildNetwork(sys, tun)

	hub := telemetry.NewHub(appCtx, net.laneUpdates, net.transferUpdates, 20*time.Millisecond)
	srv := telemetry.NewServer(*addr, hub)

	sys.Go(func() error { return tickLoop(appCtx, tun, net.sw) })
	sys.Go(func() error { return srv.Serve(appCtx) })

	<-appCtx.Done()
	return sys.Shutdown()
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
