//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mariana-chat/domain/message"
)

type IMessageRepository interface {
	InsertMessage(ctx context.Context, cmd message.SendCommand) (message.Message, error)
	Conversation(ctx context.Context, query message.HistoryQuery) ([]message.Message, error)
	PartnerIDs(ctx context.Context, participantID string) ([]string, error)
	MessagesByID(ctx context.Context, ids []string) ([]message.Message, error)
}

type MessageRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewMessageRepository(db *sql.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// InsertMessage appends one row and returns the canonical record with the
// server-assigned id and timestamp. The row is immutable once written.
func (m MessageRepository) InsertMessage(ctx context.Context, cmd message.SendCommand) (message.Message, error) {
	msg := message.Message{
		ID:         uuid.New(),
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Content:    cmd.Content,
		Type:       cmd.Type,
		SentAt:     time.Now().UTC(),
	}
	if msg.Type == "" {
		msg.Type = message.TypeText
	}

	_, err := m.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, content, type, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID.String(), msg.SenderID, msg.ReceiverID, msg.Content, string(msg.Type), msg.SentAt,
	)
	if err != nil {
		return message.Message{}, err
	}
	return msg, nil
}

// Conversation returns every message exchanged between the two participants,
// ordered by sent_at ascending. The pair is unordered: querying A→B and B→A
// yields the same sequence.
func (m MessageRepository) Conversation(ctx context.Context, query message.HistoryQuery) ([]message.Message, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, sender_id, receiver_id, content, type, sent_at
		 FROM messages
		 WHERE (sender_id = ? AND receiver_id = ?)
		    OR (sender_id = ? AND receiver_id = ?)
		 ORDER BY sent_at ASC`,
		query.ParticipantA, query.ParticipantB,
		query.ParticipantB, query.ParticipantA,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []message.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// PartnerIDs lists the distinct participants the caller has exchanged
// messages with. Self-conversations are excluded from the listing, matching
// the conversation sidebar which never shows the caller to themselves.
func (m MessageRepository) PartnerIDs(ctx context.Context, participantID string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT DISTINCT
			CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id
		 FROM messages
		 WHERE (sender_id = ? OR receiver_id = ?)
		   AND sender_id != receiver_id`,
		participantID, participantID, participantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MessagesByID fetches the given messages, preserving the order of ids.
// Unknown ids are silently skipped; the search index may briefly reference
// rows from a database that was since replaced.
func (m MessageRepository) MessagesByID(ctx context.Context, ids []string) ([]message.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := m.db.QueryContext(ctx,
		`SELECT id, sender_id, receiver_id, content, type, sent_at
		 FROM messages WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]message.Message, len(ids))
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		byID[msg.ID.String()] = msg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var messages []message.Message
	for _, id := range ids {
		if msg, ok := byID[id]; ok {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func scanMessage(rows *sql.Rows) (message.Message, error) {
	var (
		msg     message.Message
		rawID   string
		rawType string
	)
	if err := rows.Scan(&rawID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &rawType, &msg.SentAt); err != nil {
		return message.Message{}, err
	}
	parsedID, err := uuid.Parse(rawID)
	if err != nil {
		return message.Message{}, err
	}
	msg.ID = parsedID
	msg.Type = message.Type(rawType)
	msg.SentAt = msg.SentAt.UTC()
	return msg, nil
}
