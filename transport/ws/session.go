package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mariana-chat/domain/event"
	"mariana-chat/domain/message"
	"mariana-chat/errors"
)

// Session owns one client connection from upgrade to close. It is the
// contract.EventSink registered in the presence registry: the router pushes
// through Consume, which enqueues onto the buffered send channel drained by
// the write pump. A session may send messages before registering; it simply
// receives no pushes until it does.
type Session struct {
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	mu     sync.Mutex
	closed bool
}

func newSession(conn *websocket.Conn, bufferSize int, log *slog.Logger) *Session {
	return &Session{
		conn: conn,
		send: make(chan []byte, bufferSize),
		log:  log,
	}
}

// Consume implements contract.EventSink. It never blocks: a full buffer or
// a closed session reports an error and the event is dropped, which the
// router treats as a best-effort delivery miss.
func (s *Session) Consume(_ context.Context, e event.DomainEvent) error {
	data, err := MarshalEvent(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrSessionClosed
	}
	select {
	case s.send <- data:
		return nil
	default:
		return errors.ErrSendBufferFull
	}
}

// close marks the session dead and wakes the write pump. Safe to call from
// both pumps; only the first call closes the channel.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// readPump reads frames until the connection dies, dispatching each inbound
// envelope. It runs on the goroutine that handled the HTTP upgrade.
func (s *Server) readPump(ctx context.Context, session *Session) {
	defer func() {
		session.close()
		// The only per-session cleanup: a presence entry pointing at this
		// session stops existing. No-op if it never registered or was
		// already superseded by a newer registration.
		s.presence.Remove(session)
		s.metrics.SessionClosed()
		session.conn.Close()
	}()

	session.conn.SetReadLimit(maxFrameSize)
	session.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	session.conn.SetPongHandler(func(string) error {
		session.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		return nil
	})

	for {
		_, data, err := session.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.log.Warn("Websocket read failed", "error", err)
			}
			return
		}
		s.handleEnvelope(ctx, session, data)
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings. It exits when the channel is closed or a write fails.
func (s *Server) writePump(session *Session) {
	ticker := time.NewTicker(s.pingInterval)
	defer func() {
		ticker.Stop()
		session.conn.Close()
	}()

	for {
		select {
		case data, ok := <-session.send:
			session.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if !ok {
				session.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := session.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Debug("Websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			session.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := session.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleEnvelope decodes one inbound frame and dispatches it. Malformed
// frames get an error event back on the same session, never a disconnect.
func (s *Server) handleEnvelope(ctx context.Context, session *Session, data []byte) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.sendError(ctx, session, "invalid JSON message")
		return
	}

	switch envelope.Event {
	case EventRegister:
		s.handleRegister(session, envelope.Payload)
	case EventSendMessage:
		s.handleSendMessage(ctx, session, envelope.Payload)
	default:
		s.sendError(ctx, session, "unknown event: "+envelope.Event)
	}
}

func (s *Server) handleRegister(session *Session, raw json.RawMessage) {
	var payload RegisterPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// register also accepts a bare participant id string
		if err := json.Unmarshal(raw, &payload.ParticipantID); err != nil {
			s.log.Warn("Discarding malformed register payload")
			return
		}
	}
	// Last writer wins: a reconnect replaces the previous entry, orphaning
	// the older session if it is somehow still open.
	s.presence.Register(payload.ParticipantID, session)
	s.log.Info("Participant registered", "participant_id", payload.ParticipantID)
}

func (s *Server) handleSendMessage(ctx context.Context, session *Session, raw json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.sendError(ctx, session, "invalid send_message payload")
		return
	}

	// The router emits message_sent / error back to this session itself.
	_, _ = s.service.SendText(ctx, session, message.SendCommand{
		SenderID:   payload.SenderID,
		ReceiverID: payload.ReceiverID,
		Content:    payload.Content,
	})
}

func (s *Server) sendError(ctx context.Context, session *Session, reason string) {
	if err := session.Consume(ctx, event.SendFailed{Reason: reason}); err != nil {
		s.log.Debug("Failed to deliver error event", "error", err)
	}
}
