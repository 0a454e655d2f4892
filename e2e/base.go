package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"mariana-chat/auth"
)

// BaseSuite carries the environment configuration and the plumbing every
// messaging scenario needs: authenticated HTTP calls and registered
// websocket clients against a running server.
type BaseSuite struct {
	suite.Suite
	Config Config
	tokens auth.TokenManager
}

// SetupSuite loads the environment configuration before running tests.
// The whole suite is skipped when no server address is configured, so the
// package stays safe to run in plain `go test ./...`.
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR not set, skipping end-to-end suite")
	}
	s.tokens = auth.NewTokenManager(s.Config.JWTSecret, time.Hour)
}

// Header prints a colorized step banner in the test log.
func (s *BaseSuite) Header(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Token mints a JWT for the given participant using the shared secret.
func (s *BaseSuite) Token(participantID string) string {
	signed, err := s.tokens.GenerateToken(participantID, []string{"user"})
	s.Require().NoError(err)
	return signed
}

// HTTPRequest performs an authenticated call against the server and returns
// the status code and body. Bodies are logged when E2E_DEBUG_JSON is set.
func (s *BaseSuite) HTTPRequest(method, path, asParticipant string, body io.Reader, contentType string) (int, []byte) {
	url := "http://" + s.Config.ServerAddr + path
	request, err := http.NewRequest(method, url, body)
	s.Require().NoError(err)
	request.Header.Set("Authorization", "Bearer "+s.Token(asParticipant))
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	response, err := http.DefaultClient.Do(request)
	s.Require().NoError(err)
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	s.Require().NoError(err)

	s.T().Logf("HTTP %s %s [%d] in %v", method, path, response.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		s.T().Logf("RESPONSE:\n%s", payload)
	}
	return response.StatusCode, payload
}

// wsEnvelope mirrors the wire frame, payload left raw for per-event decode.
type wsEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// wsClient is one connected and registered websocket participant.
type wsClient struct {
	suite *BaseSuite
	conn  *websocket.Conn
}

// Dial connects a websocket and registers it under the participant id.
func (s *BaseSuite) Dial(name, participantID string) *wsClient {
	s.Header(name)
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+s.Config.ServerAddr+"/ws", nil)
	s.Require().NoError(err, "Failed to open websocket to "+s.Config.ServerAddr)

	client := &wsClient{suite: s, conn: conn}
	client.Send("register", map[string]string{"participant_id": participantID})
	return client
}

func (c *wsClient) Close() {
	c.conn.Close()
}

// Send writes one envelope onto the wire.
func (c *wsClient) Send(event string, payload any) {
	raw, err := json.Marshal(payload)
	c.suite.Require().NoError(err)
	frame, err := json.Marshal(wsEnvelope{Event: event, Payload: raw})
	c.suite.Require().NoError(err)
	c.suite.Require().NoError(c.conn.WriteMessage(websocket.TextMessage, frame))

	if c.suite.Config.DebugJSON {
		c.suite.T().Logf("WS SEND:\n%s", frame)
	}
}

// Expect reads the next frame and requires it to carry the given event,
// decoding its payload into out when out is non-nil.
func (c *wsClient) Expect(event string, out any) {
	c.suite.Require().NoError(c.conn.SetReadDeadline(time.Now().Add(10 * time.Second)))
	_, frame, err := c.conn.ReadMessage()
	c.suite.Require().NoError(err, "No websocket frame received while waiting for "+event)

	if c.suite.Config.DebugJSON {
		c.suite.T().Logf("WS RECV:\n%s", frame)
	}

	var envelope wsEnvelope
	c.suite.Require().NoError(json.Unmarshal(frame, &envelope))
	c.suite.Require().Equal(event, envelope.Event, "Unexpected event, payload: %s", envelope.Payload)
	if out != nil {
		c.suite.Require().NoError(json.Unmarshal(envelope.Payload, out))
	}
}
