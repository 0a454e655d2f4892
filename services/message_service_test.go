package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"mariana-chat/contract"
	"mariana-chat/domain/message"
	apperrors "mariana-chat/errors"
	"mariana-chat/internal"
	"mariana-chat/observability"
	"mariana-chat/storage"
)

// stubRouter records the last command and echoes it back as a message.
type stubRouter struct {
	calls    int
	lastCmd  message.SendCommand
	lastSink contract.EventSink
	sinkSet  bool
}

func (r *stubRouter) Send(ctx context.Context, sender contract.EventSink, cmd message.SendCommand) (message.Message, error) {
	r.calls++
	r.lastCmd = cmd
	r.lastSink = sender
	r.sinkSet = true
	return message.Message{
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Content:    cmd.Content,
		Type:       cmd.Type,
	}, nil
}

type stubMessageRepo struct {
	partnerIDs []string
	history    []message.Message
}

func (r *stubMessageRepo) InsertMessage(ctx context.Context, cmd message.SendCommand) (message.Message, error) {
	return message.Message{}, nil
}

func (r *stubMessageRepo) Conversation(ctx context.Context, query message.HistoryQuery) ([]message.Message, error) {
	return r.history, nil
}

func (r *stubMessageRepo) PartnerIDs(ctx context.Context, participantID string) ([]string, error) {
	return r.partnerIDs, nil
}

func (r *stubMessageRepo) MessagesByID(ctx context.Context, ids []string) ([]message.Message, error) {
	return r.history, nil
}

type stubParticipantRepo struct {
	known map[string]message.Participant
}

func (r *stubParticipantRepo) Resolve(ctx context.Context, id string) (message.Participant, error) {
	participant, ok := r.known[id]
	if !ok {
		return message.Participant{}, apperrors.ErrUnknownParticipant
	}
	return participant, nil
}

// id3Blob sniffs as mpeg audio.
func id3Blob() []byte {
	blob := make([]byte, 64)
	copy(blob, []byte{'I', 'D', '3', 3, 0, 0, 0, 0, 0, 0})
	return blob
}

func newTestService(t *testing.T, router *stubRouter, participants *stubParticipantRepo, messages *stubMessageRepo) *MessageService {
	t.Helper()
	log := internal.DiscardLogger()
	store, err := storage.NewVoiceNoteStore(t.TempDir(), "http://localhost:8080", log)
	require.NoError(t, err)
	return NewMessageService(log, router, messages, participants, store, nil, observability.NewMetrics())
}

func TestSendText_Forces_Text_Type(t *testing.T) {
	req := require.New(t)
	router := &stubRouter{}
	service := newTestService(t, router, &stubParticipantRepo{}, &stubMessageRepo{})

	_, err := service.SendText(context.Background(), nil, message.SendCommand{
		SenderID:   "a",
		ReceiverID: "b",
		Content:    "hi",
		Type:       message.TypeVoice, // callers cannot smuggle a type in
	})
	req.NoError(err)
	req.Equal(message.TypeText, router.lastCmd.Type)
}

func TestSendVoiceNote_Routes_URI_As_Voice_Message(t *testing.T) {
	req := require.New(t)
	router := &stubRouter{}
	participants := &stubParticipantRepo{known: map[string]message.Participant{
		"b": {ID: "b", Name: "Bob", Type: message.ParticipantUser},
	}}
	service := newTestService(t, router, participants, &stubMessageRepo{})

	msg, err := service.SendVoiceNote(context.Background(), "a", "b", bytes.NewReader(id3Blob()))
	req.NoError(err)

	req.Equal(1, router.calls)
	req.Equal(message.TypeVoice, router.lastCmd.Type)
	req.Contains(router.lastCmd.Content, "/voice_notes/voice-")
	req.Equal(msg.Content, router.lastCmd.Content)

	// The HTTP response is the acknowledgment; no sender sink is attached.
	req.True(router.sinkSet)
	req.Nil(router.lastSink)
}

func TestSendVoiceNote_Unknown_Receiver_Skips_Storage(t *testing.T) {
	req := require.New(t)
	router := &stubRouter{}
	service := newTestService(t, router, &stubParticipantRepo{}, &stubMessageRepo{})

	_, err := service.SendVoiceNote(context.Background(), "a", "ghost", bytes.NewReader(id3Blob()))
	req.ErrorIs(err, apperrors.ErrUnknownParticipant)
	req.Zero(router.calls)
}

func TestSendVoiceNote_Invalid_Blob_Is_Not_Routed(t *testing.T) {
	req := require.New(t)
	router := &stubRouter{}
	participants := &stubParticipantRepo{known: map[string]message.Participant{
		"b": {ID: "b", Name: "Bob", Type: message.ParticipantUser},
	}}
	service := newTestService(t, router, participants, &stubMessageRepo{})

	_, err := service.SendVoiceNote(context.Background(), "a", "b", bytes.NewReader([]byte("plain text")))
	req.ErrorIs(err, apperrors.ErrInvalidVoiceFormat)
	req.Zero(router.calls)
}

func TestSearchMessages_Without_Index(t *testing.T) {
	req := require.New(t)
	service := newTestService(t, &stubRouter{}, &stubParticipantRepo{}, &stubMessageRepo{})

	_, err := service.SearchMessages(context.Background(), "a", "badger", 10)
	req.ErrorIs(err, apperrors.ErrSearchDisabled)
}

func TestConversationPartners_Skips_Unresolvable_IDs(t *testing.T) {
	req := require.New(t)
	participants := &stubParticipantRepo{known: map[string]message.Participant{
		"b": {ID: "b", Name: "Bob", Type: message.ParticipantUser},
		"c": {ID: "c", Name: "Crescent Bakery", Type: message.ParticipantBusiness},
	}}
	messages := &stubMessageRepo{partnerIDs: []string{"b", "deleted", "c"}}
	service := newTestService(t, &stubRouter{}, participants, messages)

	partners, err := service.ConversationPartners(context.Background(), "a")
	req.NoError(err)
	req.Len(partners, 2)
	req.Equal("Bob", partners[0].Name)
	req.Equal(message.ParticipantBusiness, partners[1].Type)
}
