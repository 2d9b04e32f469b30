package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dixieflatline76/Vista/pkg/frame"
	"github.com/dixieflatline76/Vista/pkg/source"
)

var shownAt = time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC)

func photoShowing() frame.Showing {
	return frame.Showing{
		CycleID: "cycle-1",
		Photo: &source.Photo{
			ID:       "42",
			Filename: "fjord.jpg",
			TakenAt:  time.Date(2023, time.July, 1, 12, 0, 0, 0, time.UTC),
			Location: source.Location{Area: "Bergen", Country: "Norway"},
		},
		At: shownAt,
	}
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestHealthCheck(t *testing.T) {
	s := NewServer("127.0.0.1:0", "1.2.3")
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"status":"running","version":"1.2.3","now_showing":null}`, rr.Body.String())

	s.NowShowing(photoShowing())
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var health healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	require.NotNil(t, health.NowShowing)
	assert.Equal(t, "42", health.NowShowing.PhotoID)
	assert.Equal(t, "Bergen, Norway", health.NowShowing.Location)
	assert.True(t, health.NowShowing.Since.Equal(shownAt))
}

func TestHealthCheck_Preflight(t *testing.T) {
	s := NewServer("127.0.0.1:0", "1.2.3")

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestBroadcast(t *testing.T) {
	s := NewServer("127.0.0.1:0", "1.2.3")
	server := httptest.NewServer(s.Handler())
	defer server.Close()
	ws := dial(t, server)

	// The client is registered once the server has answered the handshake; wait for it.
	require.Eventually(t, func() bool {
		s.clientsMu.Lock()
		defer s.clientsMu.Unlock()
		return len(s.clients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.NowShowing(photoShowing())
	msg := readMessage(t, ws)
	assert.Equal(t, "now_showing", msg["type"])
	assert.Equal(t, "fjord.jpg", msg["filename"])
	assert.Equal(t, "cycle-1", msg["cycle_id"])

	s.NowShowing(frame.Showing{CycleID: "cycle-2", Err: errors.New("list: API error code 120"), At: shownAt})
	msg = readMessage(t, ws)
	assert.Equal(t, "list: API error code 120", msg["error"])
	assert.NotContains(t, msg, "photo_id")

	s.UpdateAvailable(frame.UpdateInfo{CurrentVersion: "1.2.3", LatestVersion: "1.3.0", ReleaseURL: "https://example.com"})
	msg = readMessage(t, ws)
	assert.Equal(t, "update_available", msg["type"])
	assert.Equal(t, "1.3.0", msg["latest_version"])
}

func TestWebSocket_SendsStateOnConnect(t *testing.T) {
	s := NewServer("127.0.0.1:0", "1.2.3")
	s.NowShowing(photoShowing())
	s.UpdateAvailable(frame.UpdateInfo{CurrentVersion: "1.2.3", LatestVersion: "1.3.0"})
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	ws := dial(t, server)

	assert.Equal(t, "now_showing", readMessage(t, ws)["type"])
	assert.Equal(t, "update_available", readMessage(t, ws)["type"])
}

func TestStop_DropsClients(t *testing.T) {
	s := NewServer("127.0.0.1:0", "1.2.3")
	server := httptest.NewServer(s.Handler())
	defer server.Close()
	ws := dial(t, server)
	require.Eventually(t, func() bool {
		s.clientsMu.Lock()
		defer s.clientsMu.Unlock()
		return len(s.clients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := ws.ReadMessage()
	assert.Error(t, err)
}

func TestBroadcast_StalledClientDoesNotBlock(t *testing.T) {
	s := NewServer("127.0.0.1:0", "1.2.3")
	server := httptest.NewServer(s.Handler())
	defer server.Close()
	dial(t, server) // never reads
	require.Eventually(t, func() bool {
		s.clientsMu.Lock()
		defer s.clientsMu.Unlock()
		return len(s.clients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Far more than the socket buffers hold, so writes to the client stall.
	showing := photoShowing()
	showing.Photo.Filename = strings.Repeat("x", 256<<10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			s.NowShowing(showing)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NowShowing blocked on a client that does not read")
	}

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestClient_EnqueueDropsWhenFull(t *testing.T) {
	c := &client{send: make(chan any, 2)}

	assert.True(t, c.enqueue("a"))
	assert.True(t, c.enqueue("b"))
	assert.False(t, c.enqueue("c"))
	assert.Equal(t, "a", <-c.send)
}

func TestStartStop(t *testing.T) {
	s := NewServer("127.0.0.1:0", "1.2.3")
	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	require.NoError(t, s.Stop(context.Background()))

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestStop_BeforeStart(t *testing.T) {
	s := NewServer("127.0.0.1:0", "1.2.3")
	require.NoError(t, s.Stop(context.Background()))

	assert.NoError(t, s.Start())
}
