package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mariana-chat/domain/message"
	apperrors "mariana-chat/errors"
	"mariana-chat/services"
)

type Handler struct {
	log     *slog.Logger
	service services.IMessageService
}

func NewHandler(log *slog.Logger, service services.IMessageService) *Handler {
	return &Handler{log: log, service: service}
}

// GetConversationPartners returns the distinct participants the caller has
// exchanged messages with, as {id, name, type} entries.
// GET /messages/:userId/conversations
func (h *Handler) GetConversationPartners(c echo.Context) error {
	partners, err := h.service.ConversationPartners(c.Request().Context(), c.Param("userId"))
	if err != nil {
		h.log.Error("Failed to list conversation partners", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error"})
	}
	if partners == nil {
		partners = []message.PartnerSummary{}
	}
	return c.JSON(http.StatusOK, partners)
}

// GetConversation returns the full ordered message list between the caller
// and the other participant, ascending by sent_at.
// GET /messages/:userId/:receiverId
func (h *Handler) GetConversation(c echo.Context) error {
	messages, err := h.service.Conversation(c.Request().Context(), message.HistoryQuery{
		ParticipantA: c.Param("userId"),
		ParticipantB: c.Param("receiverId"),
	})
	if err != nil {
		h.log.Error("Failed to fetch conversation", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error"})
	}
	if messages == nil {
		messages = []message.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

// SearchMessages runs a full-text query over the caller's conversations.
// GET /messages/:userId/search?q=...&limit=...
func (h *Handler) SearchMessages(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
	}

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 100"})
		}
		limit = parsed
	}

	messages, err := h.service.SearchMessages(c.Request().Context(), c.Param("userId"), query, limit)
	if errors.Is(err, apperrors.ErrSearchDisabled) {
		return c.JSON(http.StatusNotImplemented, map[string]string{"error": err.Error()})
	}
	if err != nil {
		h.log.Error("Failed to search messages", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error"})
	}
	if messages == nil {
		messages = []message.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

// SendVoiceNote accepts a multipart voice recording, stores it, and routes
// a voice message to the receiver. The canonical record is returned
// synchronously; an online receiver additionally gets the live push.
// POST /messages/:userId/send-voice
func (h *Handler) SendVoiceNote(c echo.Context) error {
	receiverID := c.FormValue("receiverId")
	if receiverID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing receiverId"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing voice note file"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable voice note file"})
	}
	defer file.Close()

	msg, err := h.service.SendVoiceNote(c.Request().Context(), c.Param("userId"), receiverID, file)
	if err != nil {
		return h.voiceNoteError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) voiceNoteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrUnknownParticipant),
		errors.Is(err, apperrors.ErrEmptyVoiceNote),
		errors.Is(err, apperrors.ErrVoiceNoteTooLarge),
		errors.Is(err, apperrors.ErrInvalidVoiceFormat),
		errors.Is(err, apperrors.ErrMissingFields):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Error("Failed to send voice note", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": apperrors.ErrSendFailed.Error()})
	}
}
