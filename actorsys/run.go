package actorsys

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run drains inbox on the calling goroutine, invoking receive for each
// message until the context is cancelled, the inbox is closed, or receive
// returns Die. Because exactly one goroutine ever drains a given inbox,
// receive's view of the actor's own state is never contended — this is
// what gives "atomic handler execution" (spec.md §5) in this substrate.
func Run[M any](ctx context.Context, inbox Mailbox[M], receive func(M) Fate) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbox:
			if !ok {
				return
			}
			if receive(msg) == Die {
				return
			}
		}
	}
}

// System coordinates the goroutines backing one simulation run: it hands
// out a shared cancellation context and waits for every actor's Run loop to
// return on Shutdown. Grounded in telemetry/client.go's sync() method, which
// coordinates its own read/ping/publish loops the same way; System
// generalizes that same errgroup.WithContext shutdown shape from one
// client's three fixed loops to an open-ended number of actor goroutines.
type System struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewSystem returns a System deriving its context from parent.
func NewSystem(parent context.Context) *System {
	group, ctx := errgroup.WithContext(parent)
	return &System{group: group, ctx: ctx}
}

// Context returns the system's cancellation context, to pass to Run. It is
// cancelled when the parent context is cancelled, as soon as any goroutine
// started with Go returns a non-nil error, and when Shutdown returns.
func (s *System) Context() context.Context { return s.ctx }

// Go starts fn on its own goroutine, tracked by Shutdown's errgroup.
func (s *System) Go(fn func() error) {
	s.group.Go(fn)
}

// Shutdown blocks until every goroutine started with Go has returned,
// returning the first non-nil error any of them reported. It cancels the
// system's context only after every goroutine has returned, so it cannot by
// itself unblock the actor Run loops; the caller cancels the parent context
// passed to NewSystem (or a Go'd function returns an error) first.
func (s *System) Shutdown() error {
	return s.group.Wait()
}
