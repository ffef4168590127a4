package ws

import (
	"encoding/json"
	"sync"
)

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	Close() error
}

// Client represents a connected editor.
type Client struct {
	ID   string
	conn Conn

	mu         sync.Mutex
	fragmentID string // Currently subscribed fragment
}

// NewClient creates a new client wrapper.
func NewClient(id string, conn Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
	}
}

// Send sends a message to the client.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(msg)
}

// SendError sends an error message to the client.
func (c *Client) SendError(code, message string) error {
	return c.Send(Message{
		Type: MessageTypeError,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// SendScriptError is SendError for a failure at one operation of a script.
func (c *Client) SendScriptError(code, message string, index int) error {
	return c.Send(Message{
		Type: MessageTypeError,
		Payload: ErrorPayload{
			Code:    code,
			Message: message,
			Index:   &index,
		},
	})
}

// Receive reads a message from the client.
func (c *Client) Receive() (Message, error) {
	var raw struct {
		Type    MessageType     `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}

	if err := c.conn.ReadJSON(&raw); err != nil {
		return Message{}, err
	}

	msg := Message{Type: raw.Type}

	// Parse payload based on message type
	switch raw.Type {
	case MessageTypeApply:
		var payload ApplyPayload
		if err := json.Unmarshal(raw.Payload, &payload); err != nil {
			return Message{}, err
		}

		msg.Payload = payload
	case MessageTypeDiff:
		var payload DiffPayload
		if err := json.Unmarshal(raw.Payload, &payload); err != nil {
			return Message{}, err
		}

		msg.Payload = payload
	case MessageTypeSync:
		// Sync carries nothing: the connection is bound to one fragment.
	case MessageTypeAck, MessageTypeBroadcast, MessageTypeState, MessageTypeError:
		// Server-to-client messages - keep raw payload
		msg.Payload = raw.Payload
	}

	return msg, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// FragmentID returns the fragment the client is subscribed to.
func (c *Client) FragmentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fragmentID
}

// SetFragmentID sets the fragment the client is subscribed to.
func (c *Client) SetFragmentID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fragmentID = id
}
