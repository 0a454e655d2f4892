package message

import (
	"time"

	"github.com/google/uuid"
)

// Type distinguishes plain text messages from voice notes whose content
// is the URI of an externally stored audio blob.
type Type string

const (
	TypeText  Type = "text"
	TypeVoice Type = "voice"
)

// ParticipantType tells whether a participant id resolves to an end-user
// account or a business account. Resolution is a lookup against the
// relational store; the messaging core never creates participants.
type ParticipantType string

const (
	ParticipantUser     ParticipantType = "user"
	ParticipantBusiness ParticipantType = "business"
)

// Message is the canonical record as returned by the store after insert,
// including the server-assigned ID and SentAt. Once created it is immutable;
// no update or delete surface exists in this subsystem.
type Message struct {
	ID         uuid.UUID `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Type       Type      `json:"type"`
	SentAt     time.Time `json:"sent_at"`
}

// Participant is the resolved identity behind a participant id.
type Participant struct {
	ID   string
	Name string
	Type ParticipantType
}

// PartnerSummary is one entry of the conversation list: a distinct
// participant the caller has exchanged messages with.
type PartnerSummary struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type ParticipantType `json:"type"`
}
