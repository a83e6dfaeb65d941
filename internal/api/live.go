// Websocket live feed: one update per completed simulation day.
package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/redrock/internal/calendar"
	"github.com/talgya/redrock/internal/state"
)

const maxLiveConns = 16

// liveUpdate is the per-day payload pushed to websocket clients.
type liveUpdate struct {
	Day           int                `json:"day"`
	Date          string             `json:"date"`
	Season        string             `json:"season"`
	Population    int                `json:"population"`
	Morale        float64            `json:"morale"`
	AverageHealth float64            `json:"average_health"`
	Resources     map[string]float64 `json:"resources"`
	Weather       string             `json:"weather"`
}

// liveUpdate builds the payload. Called from the engine observer, so
// the engine lock is already held.
func (s *Server) liveUpdate(g *state.Game) liveUpdate {
	return liveUpdate{
		Day:           g.Day,
		Date:          calendar.Format(g.Date),
		Season:        g.Season.String(),
		Population:    g.Population.Total,
		Morale:        g.Morale,
		AverageHealth: g.AverageHealth(),
		Resources:     g.Resources.Map(),
		Weather:       s.Eng.Weather().Describe(),
	}
}

// liveHub fans daily updates out to connected websocket clients.
type liveHub struct {
	mu    sync.Mutex
	conns map[chan liveUpdate]struct{}
}

func newLiveHub() *liveHub {
	return &liveHub{conns: make(map[chan liveUpdate]struct{})}
}

// register returns a buffered update channel, or false when the
// connection limit is reached.
func (h *liveHub) register() (chan liveUpdate, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.conns) >= maxLiveConns {
		return nil, false
	}
	ch := make(chan liveUpdate, 8)
	h.conns[ch] = struct{}{}
	return ch, true
}

func (h *liveHub) unregister(ch chan liveUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, ch)
}

// broadcast sends without blocking; a slow client drops updates rather
// than stalling the simulation.
func (h *liveHub) broadcast(u liveUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.conns {
		select {
		case ch <- u:
		default:
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Cross-origin policy is handled by corsMiddleware; the websocket
	// handshake accepts any origin the browser let through.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleLive upgrades to a websocket and streams one update per
// simulated day until the client disconnects.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.hub.register()
	if !ok {
		http.Error(w, "too many live connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.unregister(ch)
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() {
		s.hub.unregister(ch)
		conn.Close()
	}()
	slog.Info("live client connected", "remote", r.RemoteAddr)

	// Reader drains control frames and signals disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Catch-up frame so the client has state before the next day ticks.
	var first liveUpdate
	s.Eng.Locked(func(g *state.Game) { first = s.liveUpdate(g) })
	if err := conn.WriteJSON(first); err != nil {
		return
	}

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case u := <-ch:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(u); err != nil {
				slog.Info("live client disconnected", "remote", r.RemoteAddr)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
