// Package deepgram implements the provider-backed turn detector on top of a
// persistent Deepgram live-transcription websocket.
//
// One connection is kept per session and survives across iterations; only
// the per-iteration turn listener is attached and detached. Connections are
// replaced transparently when they expire or drop, and proactively closed
// after an idle period so unused sessions hold no provider resources.
package deepgram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sonavox/liveturn-core/core/audio"
	"github.com/sonavox/liveturn-core/core/vad"
)

// ConnectionState tracks the lifecycle of the provider connection.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateReady        ConnectionState = "ready"
	StateExpired      ConnectionState = "expired"
	StateErrored      ConnectionState = "errored"
)

const (
	// DefaultConnectionTTL bounds how long a provider connection is trusted
	// before it is discarded and replaced.
	DefaultConnectionTTL = 10 * time.Minute
	// DefaultIdleTimeout closes a connection that has not forwarded audio
	// for this long. The next chunk reconnects transparently.
	DefaultIdleTimeout = 60 * time.Second

	keepAliveInterval = 5 * time.Second
	idleCheckInterval = time.Second
)

// TranscriptionSession owns one persistent provider connection and
// implements [speechtotext.TurnDetector] for it.
type TranscriptionSession struct {
	gate     *vad.Gate
	encoding audio.EncodingInfo

	connectionTTL time.Duration
	idleTimeout   time.Duration

	connMu          sync.Mutex
	conn            *websocket.Conn
	state           ConnectionState
	readyCh         chan struct{}
	expiresAt       time.Time
	lastSentAt      time.Time
	remoteSessionID string

	listenerMu sync.Mutex
	listener   *turnListener

	accumulatedTranscript string
	unendedSegment        bool

	closeOnce sync.Once
	closeCh   chan struct{}

	// dial is swapped out in tests.
	dial func() (*websocket.Conn, error)
}

type Option func(*TranscriptionSession)

// WithConnectionTTL overrides how long a provider connection is kept before
// expiry-driven replacement.
func WithConnectionTTL(ttl time.Duration) Option {
	return func(s *TranscriptionSession) {
		if ttl > 0 {
			s.connectionTTL = ttl
		}
	}
}

// WithIdleTimeout overrides the idle teardown period.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *TranscriptionSession) {
		if timeout > 0 {
			s.idleTimeout = timeout
		}
	}
}

// WithEncodingInfo sets the audio encoding announced to the provider.
func WithEncodingInfo(encoding audio.EncodingInfo) Option {
	return func(s *TranscriptionSession) {
		s.encoding = encoding
	}
}

// NewTranscriptionSession creates a detached session. No connection is
// opened until the first iteration forwards audio.
func NewTranscriptionSession(gate *vad.Gate, opts ...Option) *TranscriptionSession {
	session := &TranscriptionSession{
		gate:          gate,
		encoding:      audio.GetDefaultEncodingInfo(),
		connectionTTL: DefaultConnectionTTL,
		idleTimeout:   DefaultIdleTimeout,
		state:         StateDisconnected,
		closeCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(session)
	}
	if session.dial == nil {
		session.dial = func() (*websocket.Conn, error) {
			return connectWebsocket(session.encoding)
		}
	}

	go session.superviseIdle()

	return session
}

// State returns the current connection state.
func (s *TranscriptionSession) State() ConnectionState {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.stateLocked()
}

// stateLocked folds expiry into the reported state.
func (s *TranscriptionSession) stateLocked() ConnectionState {
	if s.state == StateReady && !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return StateExpired
	}
	return s.state
}

// RemoteSessionID returns the provider-assigned id of the live connection,
// empty while disconnected.
func (s *TranscriptionSession) RemoteSessionID() string {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.remoteSessionID
}

// ensureReady returns with a live, unexpired connection or an error.
// Past-expiry connections are discarded and replaced before any further
// forwarding; concurrent callers wait on the in-flight attempt.
func (s *TranscriptionSession) ensureReady(ctx context.Context) error {
	for {
		select {
		case <-s.closeCh:
			return fmt.Errorf("transcription session closed")
		default:
		}

		s.connMu.Lock()
		switch s.stateLocked() {
		case StateReady:
			s.connMu.Unlock()
			return nil

		case StateExpired:
			logger.InfoContext(ctx, "provider connection expired, replacing",
				"remote_session_id", s.remoteSessionID)
			s.dropConnectionLocked(StateDisconnected)
			s.connMu.Unlock()
			meterReconnects.Add(ctx, 1)

		case StateConnecting:
			readyCh := s.readyCh
			s.connMu.Unlock()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-readyCh:
			}

		default: // disconnected or errored
			s.state = StateConnecting
			s.readyCh = make(chan struct{})
			readyCh := s.readyCh
			s.connMu.Unlock()

			conn, err := s.dial()

			s.connMu.Lock()
			close(readyCh)
			if err != nil {
				s.state = StateErrored
				s.connMu.Unlock()
				return fmt.Errorf("failed to connect to transcription provider: %w", err)
			}
			s.conn = conn
			s.state = StateReady
			s.expiresAt = time.Now().Add(s.connectionTTL)
			s.lastSentAt = time.Now()
			s.connMu.Unlock()

			go s.readAndProcessMessages(conn)
		}
	}
}

// dropConnectionLocked closes and forgets the current connection. Callers
// hold connMu.
func (s *TranscriptionSession) dropConnectionLocked(next ConnectionState) {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.remoteSessionID = ""
	s.expiresAt = time.Time{}
	s.state = next
}

// superviseIdle proactively closes connections that have not forwarded
// audio for the idle timeout. Short quiet gaps are bridged with silence
// frames so the provider's endpointing timers keep running; longer gaps
// fall back to keepalive messages.
func (s *TranscriptionSession) superviseIdle() {
	ticker := time.NewTicker(idleCheckInterval)
	defer ticker.Stop()

	silenceFrame := s.silenceFrame(idleCheckInterval)
	lastKeepAlive := time.Now()
	for {
		select {
		case <-s.closeCh:
			return
		case <-ticker.C:
		}

		s.connMu.Lock()
		if s.state != StateReady {
			s.connMu.Unlock()
			continue
		}

		idle := time.Since(s.lastSentAt)
		if idle >= s.idleTimeout {
			s.dropConnectionLocked(StateDisconnected)
			s.connMu.Unlock()
			meterIdleCloses.Add(context.Background(), 1)
			continue
		}
		s.connMu.Unlock()

		if idle > keepAliveInterval {
			if time.Since(lastKeepAlive) >= keepAliveInterval {
				lastKeepAlive = time.Now()
				s.sendKeepAlive()
			}
		} else if idle >= idleCheckInterval {
			s.sendSilence(silenceFrame)
		}
	}
}

// silenceFrame builds the given duration of silence in the session's
// encoding.
func (s *TranscriptionSession) silenceFrame(duration time.Duration) []byte {
	frame := make([]byte, s.encoding.Bytes(duration))
	for i := range frame {
		frame[i] = s.encoding.SilenceValue()
	}
	return frame
}

// Close tears the session down. Any in-flight iteration observes the closed
// state on its next suspension point.
func (s *TranscriptionSession) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		s.connMu.Lock()
		s.dropConnectionLocked(StateDisconnected)
		s.connMu.Unlock()
	})
}
