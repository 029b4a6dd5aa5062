package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"lanesim/debugview"
)

// Server exposes the lane network's live state: a websocket push feed at
// /ws, a plain-text ASCII dump at /debug/lanes, and a liveness probe at
// /healthz. Route registration follows the teacher's http.HandleFunc
// wiring (server/server.go), generalized to gorilla/mux so routes can carry
// path parameters without growing a hand-rolled switch.
type Server struct {
	addr string
	hub  *Hub
	mux  *mux.Router
}

// NewServer builds a Server publishing hub's updates.
func NewServer(addr string, hub *Hub) *Server {
	s := &Server{addr: addr, hub: hub, mux: mux.NewRouter()}
	s.mux.HandleFunc("/healthz", s.serveHealthz).Methods(http.MethodGet)
	s.mux.HandleFunc("/ws", s.serveWebsocket).Methods(http.MethodGet)
	s.mux.HandleFunc("/debug/lanes", s.serveDebugLanes).Methods(http.MethodGet)
	return s
}

// Serve blocks, serving until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("telemetry serve: %w", err)
	}
	return nil
}

func (s *Server) serveHealthz(w http.ResponseWriter, r *http.Request) {
	snap := s.hub.Snapshot()
	fmt.Fprintf(w, "ok lanes=%d transfer_lanes=%d avg_speed=%.2f\n",
		len(snap.Lanes), len(snap.TransferLanes), snap.AverageSpeed)
}

// serveWebsocket upgrades the request and streams batched Updates to the
// client until it disconnects.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	cli, err := newClient[Update](sub, w, r)
	if err != nil {
		return
	}
	if err := cli.sync(); err != nil && err != context.Canceled {
		fmt.Println("telemetry client disconnected:", err)
	}
}

func (s *Server) serveDebugLanes(w http.ResponseWriter, r *http.Request) {
	snap := s.hub.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	debugview.DumpLanes(w, snap.Lanes)
	debugview.DumpTransferLanes(w, snap.TransferLanes)
}
