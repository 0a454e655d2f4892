//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"mariana-chat/contract"
	"mariana-chat/domain/message"
	apperrors "mariana-chat/errors"
	"mariana-chat/observability"
	"mariana-chat/repositories"
	"mariana-chat/search"
	"mariana-chat/storage"
)

type IMessageService interface {
	SendText(ctx context.Context, sender contract.EventSink, cmd message.SendCommand) (message.Message, error)
	SendVoiceNote(ctx context.Context, senderID, receiverID string, blob io.Reader) (message.Message, error)
	Conversation(ctx context.Context, query message.HistoryQuery) ([]message.Message, error)
	ConversationPartners(ctx context.Context, participantID string) ([]message.PartnerSummary, error)
	SearchMessages(ctx context.Context, participantID, query string, limit int) ([]message.Message, error)
}

// MessageService is the facade the transport layers talk to. Every send,
// socket or HTTP, funnels into the router so persistence ordering and live
// push behave identically regardless of how the message arrived.
type MessageService struct {
	log          *slog.Logger
	router       contract.IRouter
	messages     repositories.IMessageRepository
	participants repositories.IParticipantRepository
	voiceNotes   *storage.VoiceNoteStore
	index        *search.Index
	metrics      *observability.Metrics
}

func NewMessageService(log *slog.Logger, router contract.IRouter,
	messages repositories.IMessageRepository, participants repositories.IParticipantRepository,
	voiceNotes *storage.VoiceNoteStore, index *search.Index, metrics *observability.Metrics) *MessageService {
	return &MessageService{
		log:          log,
		router:       router,
		messages:     messages,
		participants: participants,
		voiceNotes:   voiceNotes,
		index:        index,
		metrics:      metrics,
	}
}

func (s *MessageService) SendText(ctx context.Context, sender contract.EventSink, cmd message.SendCommand) (message.Message, error) {
	cmd.Type = message.TypeText
	return s.router.Send(ctx, sender, cmd)
}

// SendVoiceNote stores the uploaded blob, then routes a voice message whose
// content is the blob's serving URI. Routing through the same Send primitive
// means an online receiver gets the usual receive_message push; the HTTP
// response carries the canonical record, which doubles as the sender's
// acknowledgment, so no sender sink is attached.
func (s *MessageService) SendVoiceNote(ctx context.Context, senderID, receiverID string, blob io.Reader) (message.Message, error) {
	if _, err := s.participants.Resolve(ctx, receiverID); err != nil {
		return message.Message{}, err
	}

	uri, err := s.voiceNotes.Save(blob)
	if err != nil {
		return message.Message{}, err
	}
	s.metrics.VoiceNoteStored()

	return s.router.Send(ctx, nil, message.SendCommand{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    uri,
		Type:       message.TypeVoice,
	})
}

func (s *MessageService) Conversation(ctx context.Context, query message.HistoryQuery) ([]message.Message, error) {
	return s.messages.Conversation(ctx, query)
}

// ConversationPartners lists every distinct participant the caller has
// exchanged messages with, resolving each id to its account name and type.
// Ids that no longer resolve (deleted accounts) are skipped, not errors.
func (s *MessageService) ConversationPartners(ctx context.Context, participantID string) ([]message.PartnerSummary, error) {
	ids, err := s.messages.PartnerIDs(ctx, participantID)
	if err != nil {
		return nil, err
	}

	var partners []message.PartnerSummary
	for _, id := range ids {
		participant, err := s.participants.Resolve(ctx, id)
		if errors.Is(err, apperrors.ErrUnknownParticipant) {
			s.log.Debug("Skipping unresolvable conversation partner", "partner_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		partners = append(partners, message.PartnerSummary{
			ID:   participant.ID,
			Name: participant.Name,
			Type: participant.Type,
		})
	}
	return partners, nil
}

// SearchMessages runs a full-text query scoped to the caller's own
// conversations. Matches come back best first; the canonical records are
// re-read from the store so search results and history never disagree.
func (s *MessageService) SearchMessages(ctx context.Context, participantID, query string, limit int) ([]message.Message, error) {
	if s.index == nil {
		return nil, apperrors.ErrSearchDisabled
	}

	ids, err := s.index.Search(ctx, participantID, query, limit)
	if err != nil {
		return nil, err
	}
	return s.messages.MessagesByID(ctx, ids)
}
