package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsMaxMessage = 64 << 10
)

// MessageType 消息类型
type MessageType string

const (
	MessageEvaluate   MessageType = "evaluate"
	MessageEvaluation MessageType = "evaluation"
	MessageError      MessageType = "error"
	MessagePing       MessageType = "ping"
	MessagePong       MessageType = "pong"
)

// ClientMessage is what the page sends whenever a slider moves.
type ClientMessage struct {
	Type   MessageType        `json:"type"`
	Values map[string]float64 `json:"values,omitempty"`
	Lang   string             `json:"lang,omitempty"`
}

// ServerMessage answers one ClientMessage.
type ServerMessage struct {
	Type       MessageType `json:"type"`
	Timestamp  time.Time   `json:"timestamp"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// session is one websocket connection. Each incoming message is evaluated
// independently; the session carries no state between evaluations.
type session struct {
	app  *App
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	id   string
	log  *zap.Logger

	// acceptLanguage is taken from the upgrade request and applies to
	// messages that carry no lang.
	acceptLanguage string
}

func newUpgrader(origins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range origins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

func (a *App) handleWebSocket(upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			a.logger().Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		s := &session{
			app:  a,
			conn: conn,
			send: make(chan []byte, 16),
			done: make(chan struct{}),
			id:   uuid.NewString(),

			acceptLanguage: r.Header.Get("Accept-Language"),
		}
		s.log = a.logger().With(zap.String("session", s.id))
		s.log.Debug("websocket connected")

		go s.writePump()
		s.readPump(r.Context())
	}
}

// readPump evaluates messages until the peer goes away, then closes send so
// writePump can shut the connection.
func (s *session) readPump(ctx context.Context) {
	defer close(s.send)

	s.conn.SetReadLimit(wsMaxMessage)
	s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(ServerMessage{Type: MessageError, Error: "malformed message"})
			continue
		}
		s.reply(s.handle(ctx, msg))
	}
}

func (s *session) handle(ctx context.Context, msg ClientMessage) ServerMessage {
	switch msg.Type {
	case MessagePing:
		return ServerMessage{Type: MessagePong}
	case MessageEvaluate, "":
		locale := s.app.locale(msg.Lang, s.acceptLanguage)
		eval, err := s.app.Evaluate(ctx, s.app.Collector.Collect(msg.Values), locale)
		if err != nil {
			s.log.Error("evaluation failed", zap.Error(err))
			return ServerMessage{Type: MessageError, Error: err.Error()}
		}
		return ServerMessage{Type: MessageEvaluation, Evaluation: eval}
	default:
		return ServerMessage{Type: MessageError, Error: "unknown message type " + string(msg.Type)}
	}
}

func (s *session) reply(msg ServerMessage) {
	msg.Timestamp = time.Now().UTC()
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("encode message", zap.Error(err))
		data, _ = json.Marshal(ServerMessage{
			Type:      MessageError,
			Timestamp: msg.Timestamp,
			Error:     "encode message: " + err.Error(),
		})
	}
	select {
	case s.send <- data:
	case <-s.done:
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		close(s.done)
		s.conn.Close()
		s.log.Debug("websocket closed")
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.log.Warn("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
