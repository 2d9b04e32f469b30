package api

import (
	"encoding/json"
	"net/http"

	"github.com/dixieflatline76/Vista/util/log"
)

type healthResponse struct {
	Status     string      `json:"status"`
	Version    string      `json:"version"`
	NowShowing *NowShowing `json:"now_showing"`
	Update     *Update     `json:"update,omitempty"`
}

// handleHealth returns the server health status and the frame on screen.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	nowShowing, update := s.state()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:     "running",
		Version:    s.version,
		NowShowing: nowShowing,
		Update:     update,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleWebSocket upgrades the connection to WebSocket. New clients get the current state right
// away; after that they only receive broadcasts.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	c := s.register(conn)
	defer s.unregister(c)

	for {
		// Clients only keep the connection alive.
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
