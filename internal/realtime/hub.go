// Package realtime pushes row-change events to connected dashboards over
// websockets. Subscriptions are keyed by union id: a client only ever
// receives changes for its own tenant, mirroring the scoping rule the HTTP
// handlers enforce. Events arrive from the broker consumer and use the same
// payload shape as delta-sync rows, so the client applies one merge rule for
// both paths.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iliyamo/union-raid-tracker/internal/logger"
	"github.com/iliyamo/union-raid-tracker/internal/metrics"
	"github.com/iliyamo/union-raid-tracker/internal/queue"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second // must be less than pongWait
	sendBufferSize = 64
)

// Client is one websocket subscriber bound to a union.
type Client struct {
	UnionID int64
	Conn    *websocket.Conn
	Send    chan []byte
	closed  bool
	mu      sync.Mutex
}

// NewClient wraps a websocket connection for the given union.
func NewClient(unionID int64, conn *websocket.Conn) *Client {
	return &Client{UnionID: unionID, Conn: conn, Send: make(chan []byte, sendBufferSize)}
}

// SafeSend delivers a message to the client's send channel without blocking.
// It reports false when the channel is closed or full; a full buffer means
// the client is too slow and will be dropped by the hub.
func (c *Client) SafeSend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		return false
	}
}

// SafeClose closes the send channel exactly once.
func (c *Client) SafeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// Hub tracks subscribers per union and fans row-change events out to them.
// All map access happens on the run loop goroutine; callers talk to the hub
// only through channels.
type Hub struct {
	clients    map[int64]map[*Client]struct{} // unionID -> subscribers
	register   chan *Client
	unregister chan *Client
	events     chan queue.RowChangeEvent
	quit       chan struct{}
}

// NewHub creates a hub and starts its run loop.
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan queue.RowChangeEvent, 256),
		quit:       make(chan struct{}),
	}
	go h.run()
	return h
}

// Register subscribes a client to its union's change feed.
func (h *Hub) Register(c *Client) { h.register <- c }

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Broadcast queues an event for delivery to the owning union's subscribers.
// It never blocks the caller; when the event buffer is full the event is
// dropped and the client recovers through its next poll.
func (h *Hub) Broadcast(ev queue.RowChangeEvent) {
	select {
	case h.events <- ev:
	default:
		logger.Sugar().Warnf("realtime: event buffer full, dropping %s %s #%d", ev.Entity, ev.Action, ev.RowID)
	}
}

// Close stops the run loop and disconnects every client.
func (h *Hub) Close() { close(h.quit) }

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			set, ok := h.clients[c.UnionID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.UnionID] = set
			}
			set[c] = struct{}{}
			metrics.RealtimeClients.Inc()

		case c := <-h.unregister:
			if set, ok := h.clients[c.UnionID]; ok {
				if _, present := set[c]; present {
					delete(set, c)
					if len(set) == 0 {
						delete(h.clients, c.UnionID)
					}
					c.SafeClose()
					metrics.RealtimeClients.Dec()
				}
			}

		case ev := <-h.events:
			set, ok := h.clients[ev.UnionID]
			if !ok {
				continue
			}
			msg, err := json.Marshal(ev)
			if err != nil {
				logger.Sugar().Warnf("realtime: marshal event failed: %v", err)
				continue
			}
			for c := range set {
				if !c.SafeSend(msg) {
					// Slow or dead subscriber: drop it so one stuck
					// connection cannot back up the feed.
					delete(set, c)
					c.SafeClose()
					metrics.RealtimeClients.Dec()
				}
			}
			if len(set) == 0 {
				delete(h.clients, ev.UnionID)
			}

		case <-h.quit:
			for _, set := range h.clients {
				for c := range set {
					c.SafeClose()
					metrics.RealtimeClients.Dec()
				}
			}
			h.clients = make(map[int64]map[*Client]struct{})
			return
		}
	}
}

// WritePump drains the client's send channel onto the websocket, pinging on
// an interval so half-open connections are detected. It returns when the
// send channel closes or a write fails; the caller is responsible for
// unregistering.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump discards inbound frames (the feed is one-way) while keeping the
// read side alive for pong handling. It returns when the peer disconnects.
func (c *Client) ReadPump(onClose func()) {
	defer func() {
		onClose()
		_ = c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
