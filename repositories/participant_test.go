package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mariana-chat/domain/message"
	apperrors "mariana-chat/errors"
)

func TestParticipantRepository_Resolve(t *testing.T) {
	req := require.New(t)
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "messages.db"))
	req.NoError(err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO users (id, user_name) VALUES ('u1', 'Alice')`)
	req.NoError(err)
	_, err = db.Exec(`INSERT INTO businesses (id, business_name) VALUES ('b1', 'Crescent Bakery')`)
	req.NoError(err)

	repository := NewParticipantRepository(db)
	ctx := context.Background()

	user, err := repository.Resolve(ctx, "u1")
	req.NoError(err)
	req.Equal(message.Participant{ID: "u1", Name: "Alice", Type: message.ParticipantUser}, user)

	business, err := repository.Resolve(ctx, "b1")
	req.NoError(err)
	req.Equal(message.ParticipantBusiness, business.Type)
	req.Equal("Crescent Bakery", business.Name)

	_, err = repository.Resolve(ctx, "nobody")
	req.ErrorIs(err, apperrors.ErrUnknownParticipant)
}
