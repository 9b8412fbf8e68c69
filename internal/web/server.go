// Package web provides the HTTP status server and remote keypad for the
// microwave daemon.
package web

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sweeney/microwave/internal/keypad"
	"github.com/sweeney/microwave/internal/status"
)

// KeyPusher accepts key presses from remote clients.
type KeyPusher interface {
	Push(c byte) bool
}

// Server serves the status page, the JSON status, a live WebSocket feed
// and a key endpoint over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	keys       KeyPusher
	upgrader   websocket.Upgrader

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Server that reads state from the given tracker and feeds
// remote key presses into keys. keys may be nil, in which case the key
// endpoint is disabled.
func New(addr string, tracker *status.Tracker, keys KeyPusher) *Server {
	s := &Server{
		tracker: tracker,
		keys:    keys,
		done:    make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/key", s.handleKey)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the server's request multiplexer.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown closes live WebSocket feeds and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.doneOnce.Do(func() { close(s.done) })
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, s.keys != nil)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// handleKey accepts POST /key with a single key in the "key" form value.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.keys == nil {
		http.Error(w, "remote keypad disabled", http.StatusNotFound)
		return
	}
	code, msg := s.pushKey(r.FormValue("key"))
	if code != http.StatusAccepted {
		http.Error(w, msg, code)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// pushKey validates and queues one key, returning an HTTP status code and
// an error message for anything other than StatusAccepted.
func (s *Server) pushKey(raw string) (int, string) {
	if len(raw) != 1 {
		return http.StatusBadRequest, "key must be a single character"
	}
	k, ok := keypad.Normalize(raw[0])
	if !ok {
		return http.StatusBadRequest, "unknown key " + raw
	}
	if !s.keys.Push(k) {
		return http.StatusServiceUnavailable, "key queue full"
	}
	return http.StatusAccepted, ""
}
