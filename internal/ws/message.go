package ws

import "github.com/serroba/editops/internal/editop"

// MessageType identifies the kind of WebSocket message.
type MessageType string

const (
	// Client to Server messages.
	MessageTypeApply MessageType = "apply" // Client submits an edit script
	MessageTypeDiff  MessageType = "diff"  // Client submits a target text to diff against
	MessageTypeSync  MessageType = "sync"  // Client requests current state

	// Server to Client messages.
	MessageTypeAck       MessageType = "ack"       // Server confirms a script was applied
	MessageTypeBroadcast MessageType = "broadcast" // Server pushes a script to other clients
	MessageTypeState     MessageType = "state"     // Server sends the full fragment state
	MessageTypeError     MessageType = "error"     // Server reports an error
)

// Message is the envelope for all WebSocket communication.
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

// ApplyPayload carries a script in the edit DSL, one operation per entry.
type ApplyPayload struct {
	Operations []string `json:"operations"`
}

// DiffPayload asks the server to move the fragment to Target.
// Unset options fall back to the server defaults.
type DiffPayload struct {
	Target           string `json:"target"`
	IncludeInputText *bool  `json:"includeInputText,omitempty"`
	Adjust           *bool  `json:"adjust,omitempty"`
	InsertOnly       *bool  `json:"insertOnly,omitempty"`
}

// AckPayload confirms a script was applied.
type AckPayload struct {
	Applied    int                 `json:"applied"` // operations applied to the fragment so far
	Text       string              `json:"text"`
	Operations []editop.Descriptor `json:"operations"`
}

// BroadcastPayload pushes an applied script to other clients.
type BroadcastPayload struct {
	FragmentID string   `json:"fragmentId"`
	Applied    int      `json:"applied"`
	Operations []string `json:"operations"`
	ClientID   string   `json:"clientId"`
}

// StatePayload sends the full fragment state.
type StatePayload struct {
	FragmentID string `json:"fragmentId"`
	Text       string `json:"text"`
	Applied    int    `json:"applied"`
}

// ErrorPayload reports an error to the client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Index   *int   `json:"index,omitempty"` // failing operation, when known
}

// Error codes.
const (
	ErrorCodeInvalidMessage   = "invalid_message"
	ErrorCodeInvalidOperation = "invalid_operation"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeTextTooLong      = "text_too_long"
	ErrorCodeInternalError    = "internal_error"
)
