package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/oxygene76/orrery/internal/types"
)

const (
	writeWait      = 5 * time.Second
	maxCommandSize = 4096
	defaultBuffer  = 16
)

// Hub fans frames out to WebSocket clients. Each client has a bounded send
// queue; a client whose queue is full is disconnected instead of stalling
// the frame loop. Text messages from clients are decoded as control
// commands.
type Hub struct {
	upgrader websocket.Upgrader
	applier  CommandApplier
	logger   log.Logger
	buffer   int

	mu      sync.RWMutex
	clients map[uuid.UUID]*wsClient
	closed  bool
}

type wsClient struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithCommandApplier lets clients send control commands
func WithCommandApplier(a CommandApplier) HubOption {
	return func(h *Hub) { h.applier = a }
}

// WithSendBuffer sets the per-client queue length
func WithSendBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// NewHub creates an empty hub
func NewHub(logger log.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	h := &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger.With("component", "ws-hub"),
		buffer:  defaultBuffer,
		clients: make(map[uuid.UUID]*wsClient),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and serves the client until it disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	c := &wsClient{id: uuid.New(), conn: conn, send: make(chan []byte, h.buffer)}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.logger.Info("client connected", "client", c.id.String(), "remote", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)
}

// OnFrame queues frame for every connected client
func (h *Hub) OnFrame(_ context.Context, frame types.FrameMessage) error {
	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	var slow []uuid.UUID
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return types.ErrSinkClosed
	}
	for id, c := range h.clients {
		select {
		case c.send <- b:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.logger.Info("dropping slow client", "client", id.String())
		h.remove(id)
	}
	return nil
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.remove(id)
	}
	return nil
}

func (h *Hub) register(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	return true
}

// remove unregisters id and closes its queue; the write pump then closes
// the connection. Only the caller that finds id in the map closes the queue.
func (h *Hub) remove(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if ok {
		close(c.send)
	}
}

func (h *Hub) writePump(c *wsClient) {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("client write failed", "client", c.id.String(), "err", err)
			h.remove(c.id)
			// drain until remove closes the queue
			for range c.send {
			}
			return
		}
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (h *Hub) readPump(c *wsClient) {
	defer h.remove(c.id)
	c.conn.SetReadLimit(maxCommandSize)

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			h.logger.Info("client disconnected", "client", c.id.String())
			return
		}
		if kind != websocket.TextMessage || h.applier == nil {
			continue
		}

		cmd, err := DecodeCommand(data)
		if err == nil {
			err = h.applier.ApplyCommand(cmd)
		}
		if err != nil {
			h.logger.Error("rejected client command", "client", c.id.String(), "err", err)
		}
	}
}
