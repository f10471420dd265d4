package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Client is one websocket session of a user
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
	hub    *Hub
}

// Hub routes notifications to the websocket sessions of each user
type Hub struct {
	clients    map[string]map[*Client]bool
	clientsMu  sync.RWMutex
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

// NewHub creates a hub; call Run to start it
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations until ctx is done, then closes all sessions
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.clientsMu.Unlock()
			h.logger.Info("Notification client registered", zap.String("userId", client.userID))

		case client := <-h.unregister:
			h.remove(client)
			h.logger.Info("Notification client unregistered", zap.String("userId", client.userID))

		case <-ctx.Done():
			h.clientsMu.Lock()
			for userID, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
				delete(h.clients, userID)
			}
			h.clientsMu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.clients, client.userID)
			}
		}
	}
}

// Send queues n for every session of userID. Slow sessions drop messages.
func (h *Hub) Send(userID string, n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("Failed to encode notification", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn("Notification dropped, client too slow", zap.String("userId", userID))
		}
	}
}

// Sessions returns the number of connected sessions of userID
func (h *Hub) Sessions(userID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[userID])
}

// Serve registers conn for userID and pumps it until it closes
func (h *Hub) Serve(conn *websocket.Conn, userID string) {
	client := &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
		hub:    h,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only handles control frames; clients never send notifications
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("WebSocket error", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
