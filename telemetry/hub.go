package telemetry

import (
	"context"
	"sync"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"lanesim/lane"
	"lanesim/transferlane"
)

// Update is a single batched view of the lane network, pushed to every
// connected telemetry client.
type Update struct {
	Lanes         []lane.LaneSnapshot        `json:"lanes"`
	TransferLanes []transferlane.Snapshot    `json:"transfer_lanes"`
	AverageSpeed  float64                    `json:"average_speed"`
}

// Hub merges the per-lane publish channels wired via lane.Lane.SetPublish /
// transferlane.TransferLane.SetPublish into one batched update stream, and
// fans that stream out to every subscribed websocket client. This
// generalizes the teacher's single-view fan-in/batchify pipeline
// (server/root_view.go's fanIn/batchify) from one ele-update channel to any
// number of lane/transfer-lane snapshot sources.
type Hub struct {
	gauge *VelocityGauge

	mu          sync.Mutex
	lastLanes   map[string]lane.LaneSnapshot
	lastTransfer map[string]transferlane.Snapshot

	subsMu sync.Mutex
	subs   map[chan Update]struct{}
}

// NewHub builds a Hub that merges laneUpdates and transferUpdates, batching
// at rate, until ctx is cancelled.
func NewHub(
	ctx context.Context,
	laneUpdates []<-chan lane.LaneSnapshot,
	transferUpdates []<-chan transferlane.Snapshot,
	rate time.Duration,
) *Hub {
	h := &Hub{
		gauge:        NewVelocityGauge(),
		lastLanes:    map[string]lane.LaneSnapshot{},
		lastTransfer: map[string]transferlane.Snapshot{},
		subs:         map[chan Update]struct{}{},
	}

	merged := channerics.Merge(ctx.Done(), laneUpdates...)
	mergedTransfer := channerics.Merge(ctx.Done(), transferUpdates...)

	go h.absorb(ctx, merged, mergedTransfer, rate)

	return h
}

// absorb drains both merged streams, folding each snapshot into the hub's
// latest-known state and into the velocity gauge, and periodically
// broadcasts a batched Update to every subscriber.
func (h *Hub) absorb(
	ctx context.Context,
	lanes <-chan lane.LaneSnapshot,
	transfers <-chan transferlane.Snapshot,
	rate time.Duration,
) {
	ticker := channerics.NewTicker(ctx.Done(), rate)
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-lanes:
			if !ok {
				lanes = nil
				continue
			}
			h.mu.Lock()
			h.lastLanes[snap.ID.String()] = snap
			h.mu.Unlock()
			for _, car := range snap.Cars {
				h.gauge.Record(car.Velocity)
			}
		case snap, ok := <-transfers:
			if !ok {
				transfers = nil
				continue
			}
			h.mu.Lock()
			h.lastTransfer[snap.ID.String()] = snap
			h.mu.Unlock()
			for _, car := range snap.Cars {
				h.gauge.Record(car.Velocity)
			}
		case <-ticker:
			h.broadcast()
		}
	}
}

func (h *Hub) broadcast() {
	update := h.Snapshot()

	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- update:
		default:
		}
	}
}

// Snapshot returns the hub's current aggregated view of the network.
func (h *Hub) Snapshot() Update {
	h.mu.Lock()
	defer h.mu.Unlock()

	lanes := make([]lane.LaneSnapshot, 0, len(h.lastLanes))
	for _, snap := range h.lastLanes {
		lanes = append(lanes, snap)
	}
	transfers := make([]transferlane.Snapshot, 0, len(h.lastTransfer))
	for _, snap := range h.lastTransfer {
		transfers = append(transfers, snap)
	}

	return Update{Lanes: lanes, TransferLanes: transfers, AverageSpeed: h.gauge.Average()}
}

// Subscribe registers a new client channel, delivered batched updates until
// Unsubscribe is called. The returned channel holds one update so a slow
// client cannot stall the hub; while that update is unread, newer updates
// are dropped rather than queued.
func (h *Hub) Subscribe() chan Update {
	ch := make(chan Update, 1)
	h.subsMu.Lock()
	h.subs[ch] = struct{}{}
	h.subsMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a client channel.
func (h *Hub) Unsubscribe(ch chan Update) {
	h.subsMu.Lock()
	delete(h.subs, ch)
	h.subsMu.Unlock()
	close(ch)
}
