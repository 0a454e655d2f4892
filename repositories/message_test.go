package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mariana-chat/domain/message"
	"mariana-chat/internal"
)

func openTestDB(t *testing.T) MessageRepository {
	t.Helper()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "messages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMessageRepository(db, internal.DiscardLogger())
}

func TestMessageRepository_Insert_Returns_Canonical_Record(t *testing.T) {
	req := require.New(t)
	repository := openTestDB(t)
	ctx := context.Background()

	msg, err := repository.InsertMessage(ctx, message.SendCommand{
		SenderID:   "a",
		ReceiverID: "b",
		Content:    "hello",
	})
	req.NoError(err)
	req.NotEmpty(msg.ID)
	req.Equal(message.TypeText, msg.Type)
	req.WithinDuration(time.Now().UTC(), msg.SentAt, 5*time.Second)
}

func TestMessageRepository_Conversation_Ordering_Both_Directions(t *testing.T) {
	req := require.New(t)
	repository := openTestDB(t)
	ctx := context.Background()

	// Given three messages exchanged in both directions
	contents := []string{"first", "second", "third"}
	senders := []string{"a", "b", "a"}
	receivers := []string{"b", "a", "b"}
	for i := range contents {
		_, err := repository.InsertMessage(ctx, message.SendCommand{
			SenderID:   senders[i],
			ReceiverID: receivers[i],
			Content:    contents[i],
		})
		req.NoError(err)
		time.Sleep(2 * time.Millisecond) // keep sent_at strictly increasing
	}

	// Then the conversation reads in sent_at order regardless of direction
	forward, err := repository.Conversation(ctx, message.HistoryQuery{ParticipantA: "a", ParticipantB: "b"})
	req.NoError(err)
	backward, err := repository.Conversation(ctx, message.HistoryQuery{ParticipantA: "b", ParticipantB: "a"})
	req.NoError(err)

	req.Len(forward, 3)
	req.Equal(forward, backward)
	for i, content := range contents {
		req.Equal(content, forward[i].Content)
	}
	req.True(forward[0].SentAt.Before(forward[2].SentAt))
}

func TestMessageRepository_Conversation_Excludes_Other_Pairs(t *testing.T) {
	req := require.New(t)
	repository := openTestDB(t)
	ctx := context.Background()

	_, err := repository.InsertMessage(ctx, message.SendCommand{SenderID: "a", ReceiverID: "b", Content: "for b"})
	req.NoError(err)
	_, err = repository.InsertMessage(ctx, message.SendCommand{SenderID: "a", ReceiverID: "c", Content: "for c"})
	req.NoError(err)

	conversation, err := repository.Conversation(ctx, message.HistoryQuery{ParticipantA: "a", ParticipantB: "b"})
	req.NoError(err)
	req.Len(conversation, 1)
	req.Equal("for b", conversation[0].Content)
}

func TestMessageRepository_MessagesByID_Preserves_Input_Order(t *testing.T) {
	req := require.New(t)
	repository := openTestDB(t)
	ctx := context.Background()

	first, err := repository.InsertMessage(ctx, message.SendCommand{SenderID: "a", ReceiverID: "b", Content: "one"})
	req.NoError(err)
	second, err := repository.InsertMessage(ctx, message.SendCommand{SenderID: "a", ReceiverID: "b", Content: "two"})
	req.NoError(err)

	// Requested in reverse order, with an id that no longer resolves
	fetched, err := repository.MessagesByID(ctx, []string{second.ID.String(), "missing-id", first.ID.String()})
	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal("two", fetched[0].Content)
	req.Equal("one", fetched[1].Content)

	empty, err := repository.MessagesByID(ctx, nil)
	req.NoError(err)
	req.Empty(empty)
}

func TestMessageRepository_PartnerIDs_Distinct_And_No_Self(t *testing.T) {
	req := require.New(t)
	repository := openTestDB(t)
	ctx := context.Background()

	// Two exchanges with b, one with c, one self-message
	seed := []message.SendCommand{
		{SenderID: "a", ReceiverID: "b", Content: "1"},
		{SenderID: "b", ReceiverID: "a", Content: "2"},
		{SenderID: "c", ReceiverID: "a", Content: "3"},
		{SenderID: "a", ReceiverID: "a", Content: "note to self"},
	}
	for _, cmd := range seed {
		_, err := repository.InsertMessage(ctx, cmd)
		req.NoError(err)
	}

	partners, err := repository.PartnerIDs(ctx, "a")
	req.NoError(err)
	req.ElementsMatch([]string{"b", "c"}, partners)
}
