package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/records"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Clients never send anything
	// but control frames.
	maxMessageSize = 512

	// Events queued per client before it is considered too slow and dropped
	clientBuffer = 32
)

// feedClient is one websocket subscriber
type feedClient struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan records.Event
	remoteAddr string
}

// Hub fans record change events out to every connected websocket client.
// Registration, removal and broadcast all run on one goroutine.
type Hub struct {
	upgrader websocket.Upgrader

	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan records.Event
	quit       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once

	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

// NewHub creates a hub and starts its broadcast loop
func NewHub() *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed carries no credentials, any origin may listen
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan records.Event, 64),
		quit:       make(chan struct{}),
		stopped:    make(chan struct{}),
		clients:    make(map[*feedClient]struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			logging.LogConnection(c.remoteAddr, "feed_subscribed")

		case c := <-h.unregister:
			h.drop(c)

		case ev := <-h.broadcast:
			h.mu.Lock()
			targets := make([]*feedClient, 0, len(h.clients))
			for c := range h.clients {
				targets = append(targets, c)
			}
			h.mu.Unlock()

			for _, c := range targets {
				select {
				case c.send <- ev:
				default:
					logging.Warn("Dropping slow feed client", zap.String("remote_addr", c.remoteAddr))
					h.drop(c)
				}
			}

		case <-h.quit:
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// drop removes c and closes its send channel, which ends its write pump
func (h *Hub) drop(c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	logging.LogConnection(c.remoteAddr, "feed_unsubscribed")
}

// Publish queues ev for every subscriber. It never blocks after Close.
func (h *Hub) Publish(ev records.Event) {
	select {
	case h.broadcast <- ev:
	case <-h.quit:
	}
}

// Clients returns the number of connected subscribers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and stops the broadcast loop
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.quit)
		<-h.stopped
	})
}

// ServeHTTP upgrades the request and subscribes the connection
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &feedClient{
		hub:        h,
		conn:       conn,
		send:       make(chan records.Event, clientBuffer),
		remoteAddr: r.RemoteAddr,
	}

	select {
	case h.register <- c:
	case <-h.quit:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump consumes control frames until the peer goes away
func (c *feedClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("Feed client read error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// writePump delivers queued events and keeps the connection alive with pings
func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				logging.Debug("Feed client write error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
