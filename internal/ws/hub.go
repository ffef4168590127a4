package ws

import (
	"sync"
)

// Hub manages WebSocket clients and broadcasts applied scripts.
type Hub struct {
	mu sync.RWMutex

	// clients maps client ID to client
	clients map[string]*Client

	// fragments maps fragment ID to set of client IDs
	fragments map[string]map[string]struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		fragments: make(map[string]map[string]struct{}),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
}

// Unregister removes a client from the hub and its fragment subscription.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leave(client.ID, client.FragmentID())
	delete(h.clients, client.ID)
}

// Subscribe adds a client to a fragment's broadcast list, leaving any
// fragment it was subscribed to before.
func (h *Hub) Subscribe(client *Client, fragmentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old := client.FragmentID(); old != fragmentID {
		h.leave(client.ID, old)
	}

	if h.fragments[fragmentID] == nil {
		h.fragments[fragmentID] = make(map[string]struct{})
	}

	h.fragments[fragmentID][client.ID] = struct{}{}
	client.SetFragmentID(fragmentID)
}

// Unsubscribe removes a client from a fragment's broadcast list.
func (h *Hub) Unsubscribe(client *Client, fragmentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leave(client.ID, fragmentID)

	if client.FragmentID() == fragmentID {
		client.SetFragmentID("")
	}
}

// leave drops clientID from a fragment's set. Callers hold h.mu.
func (h *Hub) leave(clientID, fragmentID string) {
	if fragmentID == "" {
		return
	}

	if clients, ok := h.fragments[fragmentID]; ok {
		delete(clients, clientID)

		if len(clients) == 0 {
			delete(h.fragments, fragmentID)
		}
	}
}

// Broadcast sends a message to all clients subscribed to a fragment,
// except the sender (identified by excludeClientID).
func (h *Hub) Broadcast(fragmentID string, msg Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clientIDs, ok := h.fragments[fragmentID]
	if !ok {
		return
	}

	for clientID := range clientIDs {
		if clientID == excludeClientID {
			continue
		}

		client, ok := h.clients[clientID]
		if !ok {
			continue
		}

		// Send in goroutine to avoid blocking on slow clients
		go func(c *Client) {
			_ = c.Send(msg)
		}(client)
	}
}

// BroadcastScript pushes an applied script to every subscriber but the sender.
func (h *Hub) BroadcastScript(fragmentID string, applied int, operations []string, senderID string) {
	msg := Message{
		Type: MessageTypeBroadcast,
		Payload: BroadcastPayload{
			FragmentID: fragmentID,
			Applied:    applied,
			Operations: operations,
			ClientID:   senderID,
		},
	}

	h.Broadcast(fragmentID, msg, senderID)
}

// ClientCount returns the number of clients subscribed to a fragment.
func (h *Hub) ClientCount(fragmentID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.fragments[fragmentID])
}

// TotalClients returns the total number of connected clients.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
