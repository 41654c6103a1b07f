// Package gateway exposes a round over websockets: JSON envelopes carry
// commands and event batches, binary msgpack frames carry snapshots.
package gateway

import (
	"context"
	"sync"
	"time"

	"dogfight-arena/internal/config"
	"dogfight-arena/internal/event"
	"dogfight-arena/internal/game"
	"dogfight-arena/internal/protocol"
	"dogfight-arena/internal/round"

	"go.uber.org/zap"
)

// Arena is the part of the round controller the gateway drives
type Arena interface {
	Snapshot() *protocol.GameState
	HandleIntent(k game.IntentKey, pressed bool)
	StartBattle(mode round.Mode) error
	Restart() error
	ReturnToMenu() error
}

// Hub manages all connected clients and fans out round output
type Hub struct {
	arena Arena
	cfg   config.GatewayConfig
	log   *zap.Logger

	mu         sync.RWMutex
	clients    map[*Client]bool
	closed     bool // set by closeAll, guarded by mu
	unregister chan *Client
	done       chan struct{} // closed once Run returns

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
}

// NewHub creates a new Hub for arena
func NewHub(arena Arena, cfg config.GatewayConfig, log *zap.Logger) *Hub {
	return &Hub{
		arena:      arena,
		cfg:        cfg,
		log:        log,
		clients:    make(map[*Client]bool),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
		ipConns:    make(map[string]int),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.cfg.MaxConns {
		return false
	}
	if h.ipConns[ip] >= h.cfg.MaxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// add registers c unless the hub has shut down
func (h *Hub) add(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = true
	h.log.Info("client connected", zap.String("addr", c.remoteAddr))
	return true
}

// Run processes unregister events and broadcasts snapshots at
// the configured rate until ctx is done
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.cfg.BroadcastRate))
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.log.Info("client disconnected", zap.String("addr", client.remoteAddr))

		case <-ticker.C:
			h.broadcastState()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// broadcastState sends the current snapshot to all clients
func (h *Hub) broadcastState() {
	if h.ClientCount() == 0 {
		return
	}
	data, err := protocol.EncodeState(h.arena.Snapshot())
	if err != nil {
		h.log.Error("snapshot encode failed", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendBinary(data)
	}
}

// Publish implements event.Sink. The batch is encoded once and queued
// to every client without blocking; slow clients miss it.
func (h *Hub) Publish(batch []event.Event) {
	if h.ClientCount() == 0 {
		return
	}
	data, err := protocol.MarshalEnvelope(protocol.MsgEvents, batch)
	if err != nil {
		h.log.Error("event encode failed", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendRaw(data)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
