package ws

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// outbound is the envelope for every server-to-client message.
type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// client is one websocket connection. A dedicated writer goroutine drains
// send so no two goroutines ever write to the socket concurrently.
type client struct {
	id   string
	conn *websocket.Conn

	// sendMu serializes producers against closeSend: broadcasts may hold a
	// snapshot of this client after it was unregistered, so send is only
	// closed under the same mutex that guards every enqueue.
	sendMu     sync.Mutex
	sendClosed bool
	send       chan outbound

	// Session bound at join time. Mutated only by the connection's read
	// goroutine; the disconnect path reads it from the same goroutine.
	username string
	roomID   string
	isAdmin  bool
}

func (c *client) writeLoop() {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error on %s: %v", c.id, err)
			return
		}
	}
}

// enqueue is non-blocking: a slow consumer loses its oldest queued message
// rather than stalling a room broadcast, and a disconnected client silently
// drops the message.
func (c *client) enqueue(event string, payload any) {
	msg := outbound{Type: event, Payload: payload}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return
	}
	select {
	case c.send <- msg:
	default:
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// closeSend stops the writer goroutine. Safe against concurrent enqueue and
// against double close.
func (c *client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.send)
}

// Hub owns the connection registry and room membership. It implements the
// core's Broadcaster; it never calls back into the service.
type Hub struct {
	nextID uint64

	mu      sync.RWMutex
	clients map[string]*client
	rooms   map[string]map[string]*client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]*client),
	}
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{
		id:   fmt.Sprintf("conn-%d", atomic.AddUint64(&h.nextID, 1)),
		conn: conn,
		send: make(chan outbound, 16),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	go c.writeLoop()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	h.removeFromRoomLocked(c)
	h.mu.Unlock()

	c.closeSend()
}

func (h *Hub) joinRoom(c *client, roomID string) {
	key := roomKey(roomID)
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoomLocked(c)
	members, ok := h.rooms[key]
	if !ok {
		members = make(map[string]*client)
		h.rooms[key] = members
	}
	members[c.id] = c
}

func (h *Hub) leaveRoom(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(c)
}

func (h *Hub) removeFromRoomLocked(c *client) {
	for key, members := range h.rooms {
		if _, ok := members[c.id]; ok {
			delete(members, c.id)
			if len(members) == 0 {
				delete(h.rooms, key)
			}
		}
	}
}

// ToRoom broadcasts an event to every member of a room.
func (h *Hub) ToRoom(roomID, event string, payload any) {
	h.mu.RLock()
	members := make([]*client, 0, len(h.rooms[roomKey(roomID)]))
	for _, c := range h.rooms[roomKey(roomID)] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(event, payload)
	}
}

// ToRoomExcept broadcasts to a room, skipping the named connection.
func (h *Hub) ToRoomExcept(roomID, connID, event string, payload any) {
	h.mu.RLock()
	members := make([]*client, 0, len(h.rooms[roomKey(roomID)]))
	for _, c := range h.rooms[roomKey(roomID)] {
		if c.id != connID {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(event, payload)
	}
}

// CloseRoom forgets a room's membership so a recreated room with the same id
// starts empty. Connections stay open.
func (h *Hub) CloseRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomKey(roomID))
}

func roomKey(roomID string) string {
	return strings.ToLower(roomID)
}
