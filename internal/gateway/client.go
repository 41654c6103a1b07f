package gateway

import (
	"encoding/json"
	"time"

	"dogfight-arena/internal/protocol"
	"dogfight-arena/internal/round"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	log        *zap.Logger
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
		log:        hub.log.With(zap.String("addr", remoteAddr)),
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	pongWait := c.hub.cfg.PongTimeout
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read failed", zap.Error(err))
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log.Warn("rate limit exceeded, disconnecting")
			break
		}

		c.handleMessage(message)
	}
}

// pingPeriod keeps pings inside the pong deadline. NewTicker panics on
// a non-positive interval, so tiny timeouts are floored.
func pingPeriod(pong time.Duration) time.Duration {
	if p := pong * 9 / 10; p > 0 {
		return p
	}
	return time.Millisecond
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	writeWait := c.hub.cfg.WriteTimeout
	ticker := time.NewTicker(pingPeriod(c.hub.cfg.PongTimeout))
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a typed JSON envelope to the client
func (c *Client) SendJSON(t string, data any) {
	b, err := protocol.MarshalEnvelope(t, data)
	if err != nil {
		c.log.Error("marshal failed", zap.Error(err))
		return
	}
	c.SendRaw(b)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }() // send on a channel closed by the hub
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(err error) {
	c.SendJSON(protocol.MsgError, protocol.ErrorMsg{Msg: err.Error()})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env protocol.InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug("bad envelope", zap.Error(err))
		c.sendError(err)
		return
	}

	switch env.T {
	case protocol.MsgIntent:
		c.handleIntent(env.D)
	case protocol.MsgStart:
		c.handleStart(env.D)
	case protocol.MsgRestart:
		if err := c.hub.arena.Restart(); err != nil {
			c.sendError(err)
		}
	case protocol.MsgMenu:
		if err := c.hub.arena.ReturnToMenu(); err != nil {
			c.sendError(err)
		}
	default:
		c.SendJSON(protocol.MsgError, protocol.ErrorMsg{Msg: "unknown message " + env.T})
	}
}

func (c *Client) handleIntent(data json.RawMessage) {
	var msg protocol.IntentMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(err)
		return
	}
	k, err := msg.Parse()
	if err != nil {
		c.sendError(err)
		return
	}
	c.hub.arena.HandleIntent(k, msg.Pressed)
}

func (c *Client) handleStart(data json.RawMessage) {
	var msg protocol.StartMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(err)
			return
		}
	}
	if msg.Mode == "" {
		msg.Mode = string(round.ModePlayer)
	}
	mode, err := round.ParseMode(msg.Mode)
	if err != nil {
		c.sendError(err)
		return
	}
	if err := c.hub.arena.StartBattle(mode); err != nil {
		c.sendError(err)
		return
	}
	c.log.Info("battle requested", zap.String("mode", msg.Mode))
}

func (c *Client) welcome() {
	gs := c.hub.arena.Snapshot()
	c.SendJSON(protocol.MsgWelcome, protocol.WelcomeMsg{RoundID: gs.RoundID, State: gs.State, Mode: gs.Mode})
}
