package protocol

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type handlerStub struct {
	mu        sync.Mutex
	texts     []string
	chunks    []InboundChunk
	audioEnds int
	closed    bool

	send SendFunc
}

func (h *handlerStub) HandleText(text string) error {
	h.mu.Lock()
	h.texts = append(h.texts, text)
	h.mu.Unlock()
	h.send(OutboundMessage{Type: OutboundInteractionEnd, InteractionID: "s#1"})
	return nil
}

func (h *handlerStub) HandleAudioChunk(chunk InboundChunk) error {
	h.mu.Lock()
	h.chunks = append(h.chunks, chunk)
	h.mu.Unlock()
	return nil
}

func (h *handlerStub) HandleAudioSessionEnd() {
	h.mu.Lock()
	h.audioEnds++
	h.mu.Unlock()
}

func (h *handlerStub) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

func dialTestServer(t *testing.T, server *Server) (*websocket.Conn, func()) {
	t.Helper()

	httpServer := httptest.NewServer(server)
	wsURL := strings.Replace(httpServer.URL, "http", "ws", 1)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		httpServer.Close()
		t.Fatalf("failed to dial test server: %v", err)
	}
	return conn, func() {
		conn.Close()
		httpServer.Close()
	}
}

func TestServerRoutesInboundMessages(t *testing.T) {
	handler := &handlerStub{}
	server := NewServer(func(ctx context.Context, sessionID string, send SendFunc) (MessageHandler, error) {
		if sessionID == "" {
			t.Errorf("expected a generated session id")
		}
		handler.send = send
		return handler, nil
	})

	conn, teardown := dialTestServer(t, server)
	defer teardown()

	messages := []InboundMessage{
		{Type: InboundText, Text: "hello"},
		{Type: InboundAudio, Audio: []InboundChunk{
			{Samples: []float64{0.1, 0.2}, SampleRate: 16000},
			{Samples: []float64{0.3}, SampleRate: 16000},
		}},
		{Type: InboundAudioSessionEnd},
	}
	for _, message := range messages {
		if err := conn.WriteJSON(message); err != nil {
			t.Fatalf("failed to write message: %v", err)
		}
	}

	// The text handler echoes one outbound message; receiving it proves the
	// inbound routing and the serialized writer both work.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply OutboundMessage
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if err := json.Unmarshal(data, &reply); err != nil {
		t.Fatalf("undecodable reply: %v", err)
	}
	if reply.Type != OutboundInteractionEnd || reply.InteractionID != "s#1" {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		handler.mu.Lock()
		done := len(handler.texts) == 1 && len(handler.chunks) == 2 && handler.audioEnds == 1
		handler.mu.Unlock()
		if done {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected all inbound messages to be routed, got %+v", handler)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if handler.texts[0] != "hello" {
		t.Fatalf("expected the text payload, got %q", handler.texts[0])
	}
	if len(handler.chunks[0].Samples) != 2 || handler.chunks[0].SampleRate != 16000 {
		t.Fatalf("expected the first chunk's samples, got %+v", handler.chunks[0])
	}
}

func TestServerClosesHandlerOnDisconnect(t *testing.T) {
	handler := &handlerStub{}
	server := NewServer(func(ctx context.Context, sessionID string, send SendFunc) (MessageHandler, error) {
		handler.send = send
		return handler, nil
	})

	conn, teardown := dialTestServer(t, server)
	conn.Close()
	defer teardown()

	deadline := time.Now().Add(5 * time.Second)
	for {
		handler.mu.Lock()
		closed := handler.closed
		handler.mu.Unlock()
		if closed {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected the handler to be closed on disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServerReportsUnknownMessageTypes(t *testing.T) {
	server := NewServer(func(ctx context.Context, sessionID string, send SendFunc) (MessageHandler, error) {
		return &handlerStub{send: send}, nil
	})

	conn, teardown := dialTestServer(t, server)
	defer teardown()

	if err := conn.WriteJSON(InboundMessage{Type: "bogus"}); err != nil {
		t.Fatalf("failed to write message: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply OutboundMessage
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if err := json.Unmarshal(data, &reply); err != nil {
		t.Fatalf("undecodable reply: %v", err)
	}
	if reply.Type != OutboundError {
		t.Fatalf("expected an error message, got %+v", reply)
	}
}
