// Package httpapi exposes the REST collaborator endpoints of the messaging
// core: conversation listing, conversation history, voice-note upload, and
// the websocket upgrade route.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mariana-chat/auth"
	"mariana-chat/observability"
	"mariana-chat/services"
	"mariana-chat/transport/ws"
)

// NewServer wires the echo instance: routes, auth middleware, request
// logging and static serving of stored voice notes.
func NewServer(log *slog.Logger, service services.IMessageService, socket *ws.Server,
	tokens auth.TokenManager, metrics *observability.Metrics, voiceNotesDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug("Request handled",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	handler := NewHandler(log, service)

	messages := e.Group("/messages", auth.Middleware(tokens), auth.RequireSelf)
	messages.GET("/:userId/conversations", handler.GetConversationPartners)
	messages.GET("/:userId/search", handler.SearchMessages)
	messages.GET("/:userId/:receiverId", handler.GetConversation)
	messages.POST("/:userId/send-voice", handler.SendVoiceNote)

	e.GET("/ws", socket.HandleWebSocket)
	e.Static("/voice_notes", voiceNotesDir)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/debug/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, metrics.Snapshot())
	})

	return e
}
