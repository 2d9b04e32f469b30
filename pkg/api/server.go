package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dixieflatline76/Vista/pkg/frame"
	"github.com/dixieflatline76/Vista/util/log"
)

const (
	writeTimeout = 5 * time.Second
	// sendBuffer is how many messages a client may lag behind before new ones are dropped.
	sendBuffer = 16
)

// NowShowing describes the frame on screen.
type NowShowing struct {
	CycleID  string     `json:"cycle_id"`
	PhotoID  string     `json:"photo_id,omitempty"`
	Filename string     `json:"filename,omitempty"`
	TakenAt  *time.Time `json:"taken_at,omitempty"`
	Location string     `json:"location,omitempty"`
	Error    string     `json:"error,omitempty"`
	Since    time.Time  `json:"since"`
}

// Update describes a newer release.
type Update struct {
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version"`
	ReleaseURL     string `json:"release_url"`
}

type nowShowingMessage struct {
	Type string `json:"type"`
	NowShowing
}

type updateMessage struct {
	Type string `json:"type"`
	Update
}

// Server represents the local status server. It implements frame.Observer.
type Server struct {
	addr       string
	version    string
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader

	// WebSocket management
	clients   map[*client]bool
	clientsMu sync.Mutex

	stateMu    sync.RWMutex
	nowShowing *NowShowing
	update     *Update
}

// NewServer creates a new status server for addr.
func NewServer(addr, version string) *Server {
	s := &Server{
		addr:    addr,
		version: version,
		mux:     http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]bool),
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: writeTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until Stop. It blocks.
func (s *Server) Start() error {
	log.Printf("Status server listening on %s", s.addr)
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server and drops all WebSocket clients.
func (s *Server) Stop(ctx context.Context) error {
	s.clientsMu.Lock()
	for c := range s.clients {
		s.unregisterLocked(c)
	}
	s.clientsMu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// NowShowing records the frame on screen and tells all clients.
func (s *Server) NowShowing(showing frame.Showing) {
	ns := NowShowing{CycleID: showing.CycleID, Since: showing.At}
	if p := showing.Photo; p != nil {
		ns.PhotoID = p.ID
		ns.Filename = p.Filename
		ns.Location = p.Location.String()
		if !p.TakenAt.IsZero() {
			taken := p.TakenAt
			ns.TakenAt = &taken
		}
	}
	if showing.Err != nil {
		ns.Error = showing.Err.Error()
	}

	s.stateMu.Lock()
	s.nowShowing = &ns
	s.stateMu.Unlock()

	s.broadcast(nowShowingMessage{Type: "now_showing", NowShowing: ns})
}

// UpdateAvailable records a newer release and tells all clients.
func (s *Server) UpdateAvailable(info frame.UpdateInfo) {
	u := Update{CurrentVersion: info.CurrentVersion, LatestVersion: info.LatestVersion, ReleaseURL: info.ReleaseURL}

	s.stateMu.Lock()
	s.update = &u
	s.stateMu.Unlock()

	s.broadcast(updateMessage{Type: "update_available", Update: u})
}

// broadcast queues msg for all connected clients. It never blocks; a client whose queue is
// full misses the message.
func (s *Server) broadcast(msg any) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for c := range s.clients {
		if !c.enqueue(msg) {
			log.Debugf("Client %s is lagging, dropping message", c.conn.RemoteAddr())
		}
	}
}

// register adds conn as a client, queues the current state for it and starts its writer.
func (s *Server) register(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan any, sendBuffer)}

	nowShowing, update := s.state()
	if nowShowing != nil {
		c.enqueue(nowShowingMessage{Type: "now_showing", NowShowing: *nowShowing})
	}
	if update != nil {
		c.enqueue(updateMessage{Type: "update_available", Update: *update})
	}

	s.clientsMu.Lock()
	s.clients[c] = true
	s.clientsMu.Unlock()

	go c.writeLoop()
	return c
}

func (s *Server) unregister(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.unregisterLocked(c)
}

// unregisterLocked closes c once. clientsMu must be held.
func (s *Server) unregisterLocked(c *client) {
	if !s.clients[c] {
		return
	}
	delete(s.clients, c)
	close(c.send)
	c.conn.Close()
}

func (s *Server) state() (*NowShowing, *Update) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.nowShowing, s.update
}

// client is one WebSocket connection with its outbound queue. Only writeLoop writes to conn.
type client struct {
	conn *websocket.Conn
	send chan any
}

// enqueue reports whether msg fit in the queue.
func (c *client) enqueue(msg any) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// writeLoop drains the queue until it is closed or a write fails.
func (c *client) writeLoop() {
	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			break
		}
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("Failed to write to client %s: %v", c.conn.RemoteAddr(), err)
			break
		}
	}
	// Unblocks the read loop, which unregisters the client.
	c.conn.Close()
}

var _ frame.Observer = (*Server)(nil)
