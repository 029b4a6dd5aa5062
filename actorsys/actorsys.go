// Package actorsys is the minimal in-process actor substrate the lane and
// transfer-lane actors run on: one goroutine and one inbox channel per
// actor, a swarm registry supporting broadcast-to-all, and atomic handler
// execution (a single goroutine draining a single channel can only ever be
// processing one message at a time).
//
// This is grounded in the teacher's goroutine-worker/fan-in training loop
// (reinforcement.alphaMonteCarloVanillaTrain): per-worker goroutines
// selecting on a done-channel, fed into a single downstream consumer.
package actorsys

import (
	"fmt"
	"sync/atomic"
)

// Fate is returned from a message handler to say whether the actor should
// keep running (Live) or terminate (Die), mirroring the substrate contract
// of spec.md §6.
type Fate int

const (
	Live Fate = iota
	Die
)

// ID identifies an actor instance within a swarm. InstanceID is the integer
// the throttling phase scheme (spec.md §4.3) hashes against; it is assigned
// sequentially from one process-wide counter shared by every swarm, not
// derived from any address or pointer.
type ID struct {
	Kind       string
	InstanceID uint64
}

// String renders an ID as "kind#instance", suitable as a map key or a log
// field.
func (id ID) String() string {
	return fmt.Sprintf("%s#%d", id.Kind, id.InstanceID)
}

// idSeq is a process-wide counter so IDs are unique across swarms without
// needing a shared registry object at construction time.
var idSeq uint64

// NextID returns a fresh ID of the given kind.
func NextID(kind string) ID {
	return ID{Kind: kind, InstanceID: atomic.AddUint64(&idSeq, 1) - 1}
}
