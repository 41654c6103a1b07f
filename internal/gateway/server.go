package gateway

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"

	"dogfight-arena/internal/config"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Health is the /healthz payload
type Health struct {
	State   string `json:"state"`
	Mode    string `json:"mode"`
	RoundID string `json:"round_id,omitempty"`
	Tick    uint64 `json:"tick"`
	Clients int    `json:"clients"`
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		gs := hub.arena.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Health{
			State:   gs.State,
			Mode:    gs.Mode,
			RoundID: gs.RoundID,
			Tick:    gs.Tick,
			Clients: hub.ClientCount(),
		})
	})

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn("upgrade failed", zap.Error(err))
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		if !hub.add(client) {
			hub.TrackDisconnect(ip)
			conn.Close()
			return
		}
		client.welcome()

		go client.WritePump()
		go client.ReadPump()
	})

	return mux
}

// NewServer builds the HTTP server for the gateway
func NewServer(cfg config.GatewayConfig, hub *Hub) *http.Server {
	return &http.Server{
		Addr:    cfg.BindAddress,
		Handler: SetupRoutes(hub),
	}
}
