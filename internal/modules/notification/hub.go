package notification

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// client wraps one websocket connection. writeMu serializes writes: the
// websocket package allows at most one concurrent writer per connection.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (cl *client) write(message interface{}) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	return cl.conn.WriteJSON(message)
}

// Hub tracks one websocket connection per customer. A new connection for the
// same customer replaces the old one.
type Hub struct {
	clients map[uuid.UUID]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
	}
}

func (h *Hub) Register(customerID uuid.UUID, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[customerID]; exists && old != nil {
		_ = old.conn.Close()
	}

	h.clients[customerID] = &client{conn: conn}
}

func (h *Hub) Unregister(customerID uuid.UUID) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cl, exists := h.clients[customerID]; exists && cl != nil {
		_ = cl.conn.Close()
		delete(h.clients, customerID)
	}
}

func (h *Hub) SendToCustomer(customerID uuid.UUID, message interface{}) bool {
	h.mutex.RLock()
	cl, exists := h.clients[customerID]
	h.mutex.RUnlock()

	if !exists || cl == nil {
		return false
	}

	if err := cl.write(message); err != nil {
		h.Unregister(customerID)
		return false
	}

	return true
}

// Broadcast fans a message out to every connected client. Dead connections
// are dropped along the way.
func (h *Hub) Broadcast(message interface{}) {
	h.mutex.RLock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mutex.RUnlock()

	for _, id := range ids {
		h.SendToCustomer(id, message)
	}
}

func (h *Hub) IsOnline(customerID uuid.UUID) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[customerID]
	return exists
}

func (h *Hub) GetOnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for customerID, cl := range h.clients {
		if cl != nil {
			_ = cl.conn.Close()
		}
		delete(h.clients, customerID)
	}
}
