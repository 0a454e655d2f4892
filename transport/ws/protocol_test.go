package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"mariana-chat/domain/event"
	"mariana-chat/domain/message"
	"mariana-chat/errors"
	"mariana-chat/internal"
)

func TestEnvelope_Decode(t *testing.T) {
	req := require.New(t)

	var envelope Envelope
	req.NoError(json.Unmarshal([]byte(`{"event":"send_message","payload":{"sender_id":"a","receiver_id":"b","content":"hi"}}`), &envelope))
	req.Equal(EventSendMessage, envelope.Event)

	var payload SendMessagePayload
	req.NoError(json.Unmarshal(envelope.Payload, &payload))
	req.Equal("a", payload.SenderID)
	req.Equal("b", payload.ReceiverID)
	req.Equal("hi", payload.Content)
}

func TestRegisterPayload_Accepts_Object_And_Bare_String(t *testing.T) {
	req := require.New(t)

	var fromObject RegisterPayload
	req.NoError(json.Unmarshal([]byte(`{"participant_id":"u1"}`), &fromObject))
	req.Equal("u1", fromObject.ParticipantID)

	// Older clients send the id as a plain string payload.
	var bare string
	req.NoError(json.Unmarshal([]byte(`"u1"`), &bare))
	req.Equal("u1", bare)
}

func TestMarshalEvent_Message_Frames(t *testing.T) {
	req := require.New(t)
	msg := message.Message{
		ID:         uuid.New(),
		SenderID:   "a",
		ReceiverID: "b",
		Content:    "hello",
		Type:       message.TypeText,
		SentAt:     time.Now().UTC(),
	}

	for _, evt := range []event.DomainEvent{
		event.MessageSent{Message: msg},
		event.MessageReceived{Message: msg},
	} {
		data, err := MarshalEvent(evt)
		req.NoError(err)

		var frame struct {
			Event   string          `json:"event"`
			Payload message.Message `json:"payload"`
		}
		req.NoError(json.Unmarshal(data, &frame))
		req.Equal(string(evt.Kind()), frame.Event)
		req.Equal(msg.ID, frame.Payload.ID)
		req.Equal("hello", frame.Payload.Content)
	}
}

func TestMarshalEvent_Error_Frame(t *testing.T) {
	req := require.New(t)

	data, err := MarshalEvent(event.SendFailed{Reason: "failed to send message"})
	req.NoError(err)

	var frame struct {
		Event   string `json:"event"`
		Payload string `json:"payload"`
	}
	req.NoError(json.Unmarshal(data, &frame))
	req.Equal("error", frame.Event)
	req.Equal("failed to send message", frame.Payload)
}

func TestSession_Consume_After_Close(t *testing.T) {
	req := require.New(t)
	session := newSession(nil, 4, internal.DiscardLogger())
	session.close()

	err := session.Consume(context.Background(), event.SendFailed{Reason: "late"})
	req.ErrorIs(err, errors.ErrSessionClosed)
}

func TestSession_Consume_Full_Buffer_Does_Not_Block(t *testing.T) {
	req := require.New(t)
	session := newSession(nil, 1, internal.DiscardLogger())
	ctx := context.Background()

	req.NoError(session.Consume(ctx, event.SendFailed{Reason: "first"}))

	// Nothing drains the channel, so the next event is dropped.
	err := session.Consume(ctx, event.SendFailed{Reason: "second"})
	req.ErrorIs(err, errors.ErrSendBufferFull)
}

func TestSession_Close_Is_Idempotent(t *testing.T) {
	session := newSession(nil, 1, internal.DiscardLogger())
	session.close()
	session.close() // must not panic on the already-closed channel
}
