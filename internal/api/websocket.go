package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/serroba/editops/internal/collab"
	"github.com/serroba/editops/internal/editop"
	"github.com/serroba/editops/internal/fragment"
	"github.com/serroba/editops/internal/ws"
)

// handleWebSocket handles GET /ws?fragmentId={id}.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	fragmentID := r.URL.Query().Get("fragmentId")
	if fragmentID == "" {
		http.Error(w, "fragmentId query parameter is required", http.StatusBadRequest)

		return
	}

	state, err := s.service.Sync(fragmentID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	client, cleanup, err := s.setupWebSocketClient(w, r, fragmentID)
	if err != nil {
		return
	}

	defer cleanup()

	if err := sendState(client, state); err != nil {
		return
	}

	s.handleMessages(client, fragmentID)
}

// setupWebSocketClient upgrades the connection and creates a client.
func (s *Server) setupWebSocketClient(
	w http.ResponseWriter, r *http.Request, fragmentID string,
) (*ws.Client, func(), error) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err, "request_id", RequestIDFromContext(r.Context()))

		return nil, nil, err
	}

	client := ws.NewClient(uuid.NewString(), conn)
	s.hub.Register(client)
	s.hub.Subscribe(client, fragmentID)

	s.logger.Debug("websocket client connected", "client", client.ID, "fragment", fragmentID)

	cleanup := func() {
		s.hub.Unregister(client)
		_ = client.Close()

		s.logger.Debug("websocket client disconnected", "client", client.ID, "fragment", fragmentID)
	}

	return client, cleanup, nil
}

// handleMessages processes incoming messages from a client.
func (s *Server) handleMessages(client *ws.Client, fragmentID string) {
	for {
		msg, err := client.Receive()
		if err != nil {
			return
		}

		switch msg.Type {
		case ws.MessageTypeApply:
			s.handleApply(client, fragmentID, msg)
		case ws.MessageTypeDiff:
			s.handleDiffTo(client, fragmentID, msg)
		case ws.MessageTypeSync:
			s.handleSync(client, fragmentID)
		default:
			_ = client.SendError(ws.ErrorCodeInvalidMessage, "unexpected message type")
		}
	}
}

// handleApply processes an apply message.
func (s *Server) handleApply(client *ws.Client, fragmentID string, msg ws.Message) {
	payload, ok := msg.Payload.(ws.ApplyPayload)
	if !ok {
		_ = client.SendError(ws.ErrorCodeInvalidMessage, "invalid apply payload")

		return
	}

	res, err := s.service.Apply(client.ID, fragmentID, payload.Operations)
	if err != nil {
		s.sendError(client, err)

		return
	}

	_ = sendAck(client, res)
}

// handleDiffTo processes a diff message.
func (s *Server) handleDiffTo(client *ws.Client, fragmentID string, msg ws.Message) {
	payload, ok := msg.Payload.(ws.DiffPayload)
	if !ok {
		_ = client.SendError(ws.ErrorCodeInvalidMessage, "invalid diff payload")

		return
	}

	settings := s.service.DiffDefaults().Override(payload.IncludeInputText, payload.Adjust, payload.InsertOnly)

	res, err := s.service.DiffTo(client.ID, fragmentID, payload.Target, settings)
	if err != nil {
		s.sendError(client, err)

		return
	}

	_ = sendAck(client, res)
}

// handleSync sends the current fragment state to the client.
func (s *Server) handleSync(client *ws.Client, fragmentID string) {
	res, err := s.service.Sync(fragmentID)
	if err != nil {
		s.sendError(client, err)

		return
	}

	_ = sendState(client, res)
}

// sendError reports err with the websocket error code matching its kind.
func (s *Server) sendError(client *ws.Client, err error) {
	var scriptErr *editop.ScriptError

	switch {
	case errors.Is(err, fragment.ErrFragmentNotFound):
		_ = client.SendError(ws.ErrorCodeNotFound, err.Error())
	case errors.Is(err, collab.ErrTextTooLong):
		_ = client.SendError(ws.ErrorCodeTextTooLong, err.Error())
	case errors.As(err, &scriptErr):
		_ = client.SendScriptError(ws.ErrorCodeInvalidOperation, err.Error(), scriptErr.Index)
	case statusFor(err) == http.StatusBadRequest:
		_ = client.SendError(ws.ErrorCodeInvalidOperation, err.Error())
	default:
		s.logger.Error("websocket request failed", "client", client.ID, "error", err)
		_ = client.SendError(ws.ErrorCodeInternalError, "internal server error")
	}
}

func sendAck(client *ws.Client, res collab.Result) error {
	return client.Send(ws.Message{
		Type: ws.MessageTypeAck,
		Payload: ws.AckPayload{
			Applied:    res.Applied,
			Text:       res.Text,
			Operations: editop.DescribeAll(res.Operations),
		},
	})
}

func sendState(client *ws.Client, res collab.Result) error {
	return client.Send(ws.Message{
		Type: ws.MessageTypeState,
		Payload: ws.StatePayload{
			FragmentID: res.FragmentID,
			Text:       res.Text,
			Applied:    res.Applied,
		},
	})
}
