// Package ws owns the long-lived client connections: one session per
// websocket, translating inbound protocol events into router calls and
// exposing the push primitive the router delivers through.
package ws

import (
	"encoding/json"
	"fmt"

	"mariana-chat/domain/event"
	"mariana-chat/domain/message"
)

// Client-to-server event names.
const (
	EventRegister    = "register"
	EventSendMessage = "send_message"
)

// Envelope is the wire frame for both directions: a tagged event name and
// an event-specific payload. Payloads are decoded per event kind at the
// transport boundary; nothing untyped reaches the router.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RegisterPayload associates the connection with a participant id.
type RegisterPayload struct {
	ParticipantID string `json:"participant_id"`
}

// SendMessagePayload is a text send request.
type SendMessagePayload struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

type messagePayload struct {
	Event   string          `json:"event"`
	Payload message.Message `json:"payload"`
}

type errorPayload struct {
	Event   string `json:"event"`
	Payload string `json:"payload"`
}

// MarshalEvent renders a server-to-client domain event as a wire frame.
func MarshalEvent(e event.DomainEvent) ([]byte, error) {
	switch evt := e.(type) {
	case event.MessageSent:
		return json.Marshal(messagePayload{Event: string(e.Kind()), Payload: evt.Message})
	case event.MessageReceived:
		return json.Marshal(messagePayload{Event: string(e.Kind()), Payload: evt.Message})
	case event.SendFailed:
		return json.Marshal(errorPayload{Event: string(e.Kind()), Payload: evt.Reason})
	}
	return nil, fmt.Errorf("unknown domain event %T", e)
}
