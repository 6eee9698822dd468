// Package realtime publishes seat-state transitions to websocket
// subscribers, one logical channel per trip.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message kinds on the wire. Seat transitions mirror the announce
// kinds; "snapshot" is sent once to each new subscriber.
const (
	KindSnapshot = "snapshot"
)

// Message is one event on a trip's channel.
type Message struct {
	Kind      string            `json:"kind"`
	TripID    string            `json:"trip_id"`
	SeatCodes []string          `json:"seat_codes,omitempty"`
	Seats     map[string]string `json:"seats,omitempty"` // snapshot only
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	At        int64             `json:"at"`
}

// SnapshotFunc produces the current seat code -> status map for a trip.
type SnapshotFunc func(ctx context.Context, tripID uuid.UUID) (map[string]string, error)

// Client is one websocket subscriber of a trip.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	tripID uuid.UUID
}

// Hub fans announcements out to the subscribers of each trip. Delivery
// is at-most-once per connected client; a reconnecting client gets a
// fresh snapshot instead of replayed announcements.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	snapshot   SnapshotFunc
	log        *zap.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		log:        log.With(zap.String("component", "realtime")),
	}
}

// SetSnapshotFunc wires the availability snapshot source. Set once
// during wiring, before Run.
func (h *Hub) SetSnapshotFunc(fn SnapshotFunc) {
	h.snapshot = fn
}

// Run owns the hub's state until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.tripID] == nil {
				h.clients[client.tripID] = make(map[*Client]bool)
			}
			h.clients[client.tripID][client] = true
			count := len(h.clients[client.tripID])
			h.mu.Unlock()

			h.log.Debug("Subscriber joined",
				zap.String("trip_id", client.tripID.String()),
				zap.Int("subscribers", count),
			)

			h.sendSnapshot(ctx, client)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.tripID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.tripID)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// Announce implements usecase.Broadcaster.
func (h *Hub) Announce(tripID uuid.UUID, kind string, seatCodes []string, expiresAt *time.Time) {
	msg := &Message{
		Kind:      kind,
		TripID:    tripID.String(),
		SeatCodes: seatCodes,
		ExpiresAt: expiresAt,
		At:        time.Now().UnixMilli(),
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("Broadcast queue full, dropping announcement",
			zap.String("trip_id", msg.TripID),
			zap.String("kind", kind),
		)
	}
}

func (h *Hub) deliver(message *Message) {
	tripID, err := uuid.Parse(message.TripID)
	if err != nil {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("Failed to marshal announcement", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[tripID]))
	for client := range h.clients[tripID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- data:
		default:
			// slow consumer, drop it; it re-syncs via snapshot on reconnect
			h.mu.Lock()
			if h.clients[tripID][client] {
				delete(h.clients[tripID], client)
				close(client.send)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) sendSnapshot(ctx context.Context, client *Client) {
	if h.snapshot == nil {
		return
	}

	seats, err := h.snapshot(ctx, client.tripID)
	if err != nil {
		h.log.Warn("Failed to build seat snapshot",
			zap.Error(err),
			zap.String("trip_id", client.tripID.String()),
		)
		return
	}

	data, err := json.Marshal(&Message{
		Kind:   KindSnapshot,
		TripID: client.tripID.String(),
		Seats:  seats,
		At:     time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	select {
	case client.send <- data:
	default:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for tripID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, tripID)
	}
}

// SubscriberCount reports the number of clients watching a trip.
func (h *Hub) SubscriberCount(tripID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[tripID])
}

// ServeWS upgrades the request and subscribes the client to a trip.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, tripID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 32),
		tripID: tripID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// subscribers are read-only; drain until the peer goes away
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
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
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
