package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16384,
	WriteBufferSize: 16384,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// MessageHandler consumes the decoded inbound messages of one session.
// Outbound traffic flows through the Sender handed to the factory, so the
// handler never touches the connection.
type MessageHandler interface {
	HandleText(text string) error
	HandleAudioChunk(chunk InboundChunk) error
	HandleAudioSessionEnd()
	Close()
}

// HandlerFactory builds the per-session handler when a client connects.
type HandlerFactory func(ctx context.Context, sessionID string, send SendFunc) (MessageHandler, error)

// SendFunc delivers one outbound message to the session's client.
type SendFunc func(message OutboundMessage)

// Server upgrades HTTP requests to websocket sessions, with admission
// control over concurrent sessions.
type Server struct {
	factory HandlerFactory
	sem     chan struct{}
}

type ServerOption func(*Server)

// WithMaxSessions caps concurrently running sessions; excess connection
// attempts are refused with 503.
func WithMaxSessions(max int) ServerOption {
	return func(s *Server) {
		if max > 0 {
			s.sem = make(chan struct{}, max)
		}
	}
}

func NewServer(factory HandlerFactory, opts ...ServerOption) *Server {
	s := &Server{
		factory: factory,
		sem:     make(chan struct{}, 100),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	default:
		http.Error(w, "at capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.runSession(r.Context(), conn)
}

func (s *Server) runSession(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sessionID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "run session")
	defer span.End()

	sender := newSender(conn)

	handler, err := s.factory(ctx, sessionID, sender.Send)
	if err != nil {
		logger.Error("session setup failed", "session_id", sessionID, "error", err)
		sender.Send(OutboundMessage{Type: OutboundError, Message: "session setup failed"})
		return
	}
	defer handler.Close()

	logger.Info("session started", "session_id", sessionID)
	s.processMessages(conn, sessionID, handler, sender)
	logger.Info("session ended", "session_id", sessionID)
}

// processMessages reads text frames off the websocket in a loop, decoding
// each as one inbound message, until the client disconnects.
func (s *Server) processMessages(conn *websocket.Conn, sessionID string, handler MessageHandler, sender *sender) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			logger.Info("connection closed", "session_id", sessionID, "error", err)
			return
		}

		var message InboundMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Warn("undecodable message", "session_id", sessionID, "error", err)
			sender.Send(OutboundMessage{Type: OutboundError, Message: "undecodable message"})
			continue
		}

		if err := s.dispatchInbound(handler, message); err != nil {
			logger.Error("failed to handle message", "session_id", sessionID, "type", message.Type, "error", err)
			sender.Send(OutboundMessage{Type: OutboundError, Message: err.Error()})
		}
	}
}

func (s *Server) dispatchInbound(handler MessageHandler, message InboundMessage) error {
	switch message.Type {
	case InboundText:
		return handler.HandleText(message.Text)
	case InboundAudio:
		for _, chunk := range message.Audio {
			if err := handler.HandleAudioChunk(chunk); err != nil {
				return err
			}
		}
		return nil
	case InboundAudioSessionEnd:
		handler.HandleAudioSessionEnd()
		return nil
	}

	return fmt.Errorf("unknown message type %q", message.Type)
}

// sender serializes outbound messages onto the connection. Writes are
// mutexed because the orchestrator emits from multiple goroutines.
type sender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newSender(conn *websocket.Conn) *sender {
	return &sender{conn: conn}
}

func (s *sender) Send(message OutboundMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logger.Error("failed to write message", "type", message.Type, "error", err)
	}
}
