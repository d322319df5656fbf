package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestServer(t *testing.T, app *App) *websocket.Conn {
	t.Helper()
	return dialTestServerWithHeader(t, app, nil)
}

func dialTestServerWithHeader(t *testing.T, app *App, header http.Header) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewHandler(DefaultServerConfig(), app))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestWebSocketEvaluatesEachMessage(t *testing.T) {
	model := malignantModel()
	conn := dialTestServer(t, newTestApp(t, model))

	require.NoError(t, conn.WriteJSON(ClientMessage{
		Type:   MessageEvaluate,
		Values: map[string]float64{"radius_mean": 1},
		Lang:   "en",
	}))
	var first ServerMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, MessageEvaluation, first.Type)
	require.NotNil(t, first.Evaluation)
	assert.Equal(t, 1.0, first.Evaluation.Inputs["radius_mean"])
	assert.Equal(t, "Malignant", first.Evaluation.Panel.Label)

	// a second message starts again from the means
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageEvaluate, Values: map[string]float64{"texture_mean": 3}}))
	var second ServerMessage
	require.NoError(t, conn.ReadJSON(&second))
	require.NotNil(t, second.Evaluation)
	assert.Equal(t, 2.5, second.Evaluation.Inputs["radius_mean"])
	assert.Equal(t, 3.0, second.Evaluation.Inputs["texture_mean"])
	assert.Equal(t, "id", second.Evaluation.Locale)
}

func TestWebSocketPingAndErrors(t *testing.T) {
	conn := dialTestServer(t, newTestApp(t, malignantModel()))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessagePing}))
	var pong ServerMessage
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, MessagePong, pong.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var bad ServerMessage
	require.NoError(t, conn.ReadJSON(&bad))
	assert.Equal(t, MessageError, bad.Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "subscribe"}))
	var unknown ServerMessage
	require.NoError(t, conn.ReadJSON(&unknown))
	assert.Equal(t, MessageError, unknown.Type)
	assert.Contains(t, unknown.Error, "subscribe")
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.AllowedOrigins = []string{"http://lab.example"}
	srv := httptest.NewServer(NewHandler(cfg, newTestApp(t, malignantModel())))
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServerRoutesThroughMiddleware(t *testing.T) {
	srv := httptest.NewServer(NewHandler(DefaultServerConfig(), newTestApp(t, malignantModel())))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestWebSocketHonorsAcceptLanguage(t *testing.T) {
	header := http.Header{}
	header.Set("Accept-Language", "en-GB,en;q=0.8")
	conn := dialTestServerWithHeader(t, newTestApp(t, malignantModel()), header)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageEvaluate}))
	var reply ServerMessage
	require.NoError(t, conn.ReadJSON(&reply))
	require.NotNil(t, reply.Evaluation)
	assert.Equal(t, "en", reply.Evaluation.Locale)
	assert.Equal(t, "Malignant", reply.Evaluation.Panel.Label)

	// an explicit lang still wins over the header
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageEvaluate, Lang: "id"}))
	require.NoError(t, conn.ReadJSON(&reply))
	require.NotNil(t, reply.Evaluation)
	assert.Equal(t, "id", reply.Evaluation.Locale)
	assert.Equal(t, "Ganas", reply.Evaluation.Panel.Label)
}
