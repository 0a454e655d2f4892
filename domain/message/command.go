package message

// SendCommand is a validated sending intent handed to the router.
// SenderID and ReceiverID are opaque participant ids; the router does not
// reject self-messages (sender == receiver stays permitted).
type SendCommand struct {
	SenderID   string `validate:"required"`
	ReceiverID string `validate:"required"`
	Content    string `validate:"required"`
	Type       Type
}

// HistoryQuery asks for the full conversation between two participants,
// ordered by sent_at ascending regardless of query direction.
type HistoryQuery struct {
	ParticipantA string
	ParticipantB string
}
