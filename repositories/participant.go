//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_repository.go -package=mocks
package repositories

import (
	"context"
	"database/sql"
	"errors"

	apperrors "mariana-chat/errors"

	"mariana-chat/domain/message"
)

type IParticipantRepository interface {
	Resolve(ctx context.Context, participantID string) (message.Participant, error)
}

// ParticipantRepository resolves an opaque participant id to its account.
// Ids are globally unique across the users and businesses tables, so an id
// resolves to exactly one type.
type ParticipantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) ParticipantRepository {
	return ParticipantRepository{db: db}
}

func (p ParticipantRepository) Resolve(ctx context.Context, participantID string) (message.Participant, error) {
	var name string
	err := p.db.QueryRowContext(ctx,
		`SELECT user_name FROM users WHERE id = ?`, participantID).Scan(&name)
	if err == nil {
		return message.Participant{
			ID:   participantID,
			Name: name,
			Type: message.ParticipantUser,
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return message.Participant{}, err
	}

	err = p.db.QueryRowContext(ctx,
		`SELECT business_name FROM businesses WHERE id = ?`, participantID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return message.Participant{}, apperrors.ErrUnknownParticipant
	}
	if err != nil {
		return message.Participant{}, err
	}
	return message.Participant{
		ID:   participantID,
		Name: name,
		Type: message.ParticipantBusiness,
	}, nil
}
