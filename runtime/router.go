package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"mariana-chat/contract"
	"mariana-chat/domain/event"
	"mariana-chat/domain/message"
	apperrors "mariana-chat/errors"
	"mariana-chat/moderation"
	"mariana-chat/observability"
	"mariana-chat/repositories"
	"mariana-chat/search"
)

// Router is the single choke point every send operation flows through,
// whether it originates from a live socket session or from the voice-note
// HTTP path. It enforces persist-then-push ordering: a message is never
// delivered live without already being durably stored.
type Router struct {
	log            *slog.Logger
	presence       contract.IPresence
	messages       repositories.IMessageRepository
	metrics        *observability.Metrics
	moderator      *moderation.Moderator
	index          *search.Index
	validate       *validator.Validate
	persistTimeout time.Duration
}

// NewRouter wires the routing pipeline. Moderator and index are optional;
// nil disables content screening and search indexing respectively.
func NewRouter(log *slog.Logger, presence contract.IPresence,
	messages repositories.IMessageRepository, metrics *observability.Metrics,
	moderator *moderation.Moderator, index *search.Index,
	persistTimeout time.Duration) *Router {
	return &Router{
		log:            log,
		presence:       presence,
		messages:       messages,
		metrics:        metrics,
		moderator:      moderator,
		index:          index,
		validate:       validator.New(),
		persistTimeout: persistTimeout,
	}
}

// Send validates the command, persists it, then routes the canonical record.
// In strict order:
//  1. Persist via the message repository, under a deadline so a hung store
//     surfaces as a send failure instead of blocking the session forever.
//  2. Look up the receiver in the presence registry.
//  3. If online, push the canonical record to the receiver (best effort:
//     no retry, no delivery receipt; a failed push is only logged).
//  4. Acknowledge the sender's own connection with the canonical record,
//     whether or not the receiver was reachable.
//
// The sender sink may be nil for transports without a live connection
// (HTTP voice upload); the acknowledgment is then skipped and the caller
// receives the record from the return value instead.
func (r *Router) Send(ctx context.Context, sender contract.EventSink, cmd message.SendCommand) (message.Message, error) {
	if err := r.validate.Struct(cmd); err != nil {
		r.metrics.SendRejected()
		r.emit(ctx, sender, event.SendFailed{Reason: apperrors.ErrMissingFields.Error()})
		return message.Message{}, apperrors.ErrMissingFields
	}

	// Screening happens before persistence: the stored record and every
	// push carry the censored content. Voice content is a URI, not text.
	if r.moderator != nil && cmd.Type != message.TypeVoice {
		censored, flagged := r.moderator.Censor(cmd.Content)
		if len(flagged) > 0 {
			r.metrics.MessageCensored()
			r.log.Warn("Censored outbound message",
				"sender_id", cmd.SenderID,
				"lang", r.moderator.Language(cmd.Content),
				"words", flagged)
			cmd.Content = censored
		}
	}

	persistCtx, cancel := context.WithTimeout(ctx, r.persistTimeout)
	defer cancel()

	msg, err := r.messages.InsertMessage(persistCtx, cmd)
	if err != nil {
		r.log.Error("Failed to persist message",
			"sender_id", cmd.SenderID,
			"receiver_id", cmd.ReceiverID,
			"error", err)
		r.emit(ctx, sender, event.SendFailed{Reason: apperrors.ErrSendFailed.Error()})
		return message.Message{}, apperrors.ErrSendFailed
	}
	r.metrics.MessageRouted()

	// Indexing failures never fail the send; the index is rebuildable.
	if r.index != nil {
		if err := r.index.IndexMessage(msg); err != nil {
			r.log.Warn("Failed to index message", "message_id", msg.ID, "error", err)
		}
	}

	if receiver, online := r.presence.Lookup(msg.ReceiverID); online {
		// The receiver may have disconnected between lookup and push; the
		// sink swallows the event and the message stays retrievable through
		// the conversation history.
		if err := receiver.Consume(ctx, event.MessageReceived{Message: msg}); err != nil {
			r.metrics.PushFailed()
			r.log.Debug("Live push failed",
				"receiver_id", msg.ReceiverID,
				"message_id", msg.ID,
				"error", err)
		} else {
			r.metrics.PushDelivered()
		}
	} else {
		r.metrics.PresenceMiss()
	}

	r.emit(ctx, sender, event.MessageSent{Message: msg})
	return msg, nil
}

func (r *Router) emit(ctx context.Context, sink contract.EventSink, e event.DomainEvent) {
	if sink == nil {
		return
	}
	if err := sink.Consume(ctx, e); err != nil {
		r.log.Debug("Failed to emit event to sender", "kind", e.Kind(), "error", err)
	}
}
