package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/ecoheroes/internal/logger"
	"github.com/abrezinsky/ecoheroes/internal/models"
)

const (
	MsgToast             = "toast"
	MsgLeaderboardUpdate = "leaderboard_update"

	sendBuffer    = 256
	outboxBuffer  = 64
	pongWait      = 60 * time.Second
	pingPeriod    = 54 * time.Second
	writeDeadline = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// IdentifyFunc resolves the resident behind an upgrade request
type IdentifyFunc func(r *http.Request) (int64, bool)

// envelope targets one user, or everyone when userID is 0
type envelope struct {
	userID int64
	msg    models.WSMessage
}

// Hub tracks connected residents and pushes toasts and leaderboard updates
type Hub struct {
	log        logger.Logger
	identify   IdentifyFunc
	clients    map[*Client]bool
	outbox     chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan models.WSMessage
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, identify IdentifyFunc) *Hub {
	return &Hub{
		log:        log.With("component", "websocket"),
		identify:   identify,
		clients:    make(map[*Client]bool),
		outbox:     make(chan envelope, outboxBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop until ctx is cancelled
func (h *Hub) Start(ctx context.Context) {
	go h.run(ctx)
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.log.Debug("Hub stopped")
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "user_id", client.userID, "total_clients", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "user_id", client.userID, "total_clients", total)

		case env := <-h.outbox:
			h.mutex.Lock()
			for client := range h.clients {
				if env.userID != 0 && client.userID != env.userID {
					continue
				}
				select {
				case client.send <- env.msg:
				default:
					// Client's send channel is full, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// enqueue hands a message to the hub loop without blocking the caller
func (h *Hub) enqueue(env envelope) {
	select {
	case h.outbox <- env:
	default:
		h.log.Warn("Dropping websocket message, hub is busy", "type", env.msg.Type, "user_id", env.userID)
	}
}

// BroadcastMessage sends a message to all connected clients
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	h.enqueue(envelope{msg: models.WSMessage{Type: msgType, Payload: payload}})
}

// BroadcastLeaderboardUpdate implements services.Broadcaster
func (h *Hub) BroadcastLeaderboardUpdate() {
	h.BroadcastMessage(MsgLeaderboardUpdate, nil)
}

// Notify pushes a toast to every connection of userID. It never blocks.
func (h *Hub) Notify(_ context.Context, userID int64, toast models.Toast) {
	if userID == 0 {
		return
	}
	h.enqueue(envelope{userID: userID, msg: models.WSMessage{Type: MsgToast, Payload: toast}})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type, "user_id", c.userID)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades a signed-in resident's request to a websocket
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identify(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		userID: userID,
		send:   make(chan models.WSMessage, sendBuffer),
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
