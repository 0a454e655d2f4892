package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"mariana-chat/contract"
	"mariana-chat/observability"
	"mariana-chat/services"
)

const maxFrameSize = 64 << 10

// Server upgrades HTTP requests to websocket sessions and runs their pumps.
type Server struct {
	log      *slog.Logger
	presence contract.IPresence
	service  services.IMessageService
	metrics  *observability.Metrics
	upgrader websocket.Upgrader

	bufferSize   int
	readTimeout  time.Duration
	writeTimeout time.Duration
	pingInterval time.Duration
}

func NewServer(log *slog.Logger, presence contract.IPresence, service services.IMessageService,
	metrics *observability.Metrics, bufferSize int,
	readTimeout, writeTimeout, pingInterval time.Duration) *Server {
	return &Server{
		log:      log,
		presence: presence,
		service:  service,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from a different origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		bufferSize:   bufferSize,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
	}
}

// HandleWebSocket upgrades the connection and services it until close.
// The read pump runs on this goroutine so echo keeps the request scoped to
// the session's lifetime; the write pump gets its own goroutine.
func (s *Server) HandleWebSocket(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.log.Warn("Failed to upgrade websocket", "error", err)
		return err
	}

	session := newSession(conn, s.bufferSize, s.log)
	s.metrics.SessionOpened()
	s.log.Debug("Client connected", "remote", conn.RemoteAddr().String())

	go s.writePump(session)
	s.readPump(c.Request().Context(), session)
	return nil
}
