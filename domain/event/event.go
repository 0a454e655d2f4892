package event

import (
	"mariana-chat/domain/message"
)

// Kind is the wire-level event name pushed to a connected client.
type Kind string

const (
	KindMessageSent    Kind = "message_sent"
	KindReceiveMessage Kind = "receive_message"
	KindError          Kind = "error"
)

// DomainEvent is one of the small fixed set of server-to-client events.
// Payloads are tagged variants, not loose maps, so the transport boundary
// can marshal them without inspecting their contents.
type DomainEvent interface {
	Kind() Kind
}

// MessageSent acknowledges the sender's own connection with the canonical
// record after a successful persist, whether or not the receiver was online.
type MessageSent struct {
	Message message.Message
}

func (e MessageSent) Kind() Kind { return KindMessageSent }

// MessageReceived is the live push delivered to the receiver's connection.
type MessageReceived struct {
	Message message.Message
}

func (e MessageReceived) Kind() Kind { return KindReceiveMessage }

// SendFailed reports a validation or persistence failure back to the
// originating session only. Reason is safe to show to the client.
type SendFailed struct {
	Reason string
}

func (e SendFailed) Kind() Kind { return KindError }
