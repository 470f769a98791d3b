package ws

import (
	"errors"
	"sync"

	"github.com/meetsync/meeting-service/internal/monitoring"
)

var errConnGone = errors.New("connection no longer registered")

type Conn interface {
	ID() string
	Send(msg Message) error
	Close() error
}

// Hub owns the set of live connections and their room memberships. Membership
// is process-local only and dies with the connection or the process.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]Conn
	rooms  map[string]map[string]struct{} // room name -> set of connection ids
	joined map[string]map[string]struct{} // connection id -> set of room names
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[string]Conn),
		rooms:  make(map[string]map[string]struct{}),
		joined: make(map[string]map[string]struct{}),
	}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c.ID()] = c
}

// Join is idempotent; joining with an unregistered id is a no-op.
func (h *Hub) Join(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return
	}

	rs, ok := h.rooms[room]
	if !ok {
		rs = make(map[string]struct{})
		h.rooms[room] = rs
	}
	rs[connID] = struct{}{}

	js, ok := h.joined[connID]
	if !ok {
		js = make(map[string]struct{})
		h.joined[connID] = js
	}
	js[room] = struct{}{}
}

// Send delivers to exactly one connection. A missing or already-closed
// connection is a soft failure surfaced to the caller, never a panic.
func (h *Hub) Send(connID string, msg Message) error {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()

	if !ok {
		return errConnGone
	}
	return c.Send(msg)
}

// Broadcast delivers best-effort to every member of the room; order across
// connections is not guaranteed.
func (h *Hub) Broadcast(room string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rs, ok := h.rooms[room]
	if !ok {
		return
	}
	monitoring.Broadcast(msg.Type)
	for connID := range rs {
		if c, ok := h.conns[connID]; ok {
			_ = c.Send(msg)
		}
	}
}

// Disconnect forcibly closes the connection; unregistration follows through
// the connection's own close path.
func (h *Hub) Disconnect(connID string) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()

	if ok {
		_ = c.Close()
	}
}

// Remove unregisters a connection and clears it from every room.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.joined[connID] {
		if rs, ok := h.rooms[room]; ok {
			delete(rs, connID)
			if len(rs) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	delete(h.joined, connID)
	delete(h.conns, connID)
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}
