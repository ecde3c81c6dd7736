package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// UserIDHeader identifies the connecting user; it is set by the fronting auth proxy.
// Browsers that cannot set headers on an upgrade pass the user_id query parameter.
const (
	UserIDHeader = "X-User-ID"
	userIDQuery  = "user_id"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// фронтенд обслуживается с другого origin
		return true
	},
}

// Hub fans progress events out to the connections of the user who owns them.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	log        logrus.FieldLogger
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// envelope is one encoded event addressed to a user.
type envelope struct {
	userID  string
	payload []byte
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan envelope, sendBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.WithField("component", "websocket"),
	}
}

type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = struct{}{}
			h.mutex.Unlock()
			h.log.WithField("clients", h.ClientCount()).Info("🔌 WebSocket client connected")

		case client := <-h.unregister:
			h.drop(client)
			h.log.WithField("clients", h.ClientCount()).Info("🔌 WebSocket client disconnected")

		case message := <-h.broadcast:
			h.mutex.RLock()
			var slow []*Client
			for c := range h.clients {
				if c.userID != message.userID {
					continue
				}
				select {
				case c.send <- message.payload:
				default:
					slow = append(slow, c)
				}
			}
			h.mutex.RUnlock()

			for _, c := range slow {
				h.log.Warn("⚠️ Client send buffer full, dropping client")
				h.drop(c)
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Broadcast queues an event for every connection of userID. Events of
// anonymous runs have no audience and are dropped. It never blocks: when
// the queue is full the event is dropped.
func (h *Hub) Broadcast(userID, eventType string, data interface{}) {
	if userID == "" {
		return
	}

	msg := Message{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal message")
		return
	}

	select {
	case h.broadcast <- envelope{userID: userID, payload: jsonData}:
	default:
		h.log.WithField("type", eventType).Warn("Broadcast channel full, skipping message")
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		userID = strings.TrimSpace(r.URL.Query().Get(userIDQuery))
	}
	if userID == "" {
		http.Error(w, "user id is required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
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

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// клиенты ничего не присылают, читаем только ради close/pong
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
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
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
