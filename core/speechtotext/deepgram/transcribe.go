package deepgram

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/sonavox/liveturn-core/core/audio"
)

func connectWebsocket(encoding audio.EncodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	providerEncoding, err := convertEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("invalid encoding: %w", err)
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", providerEncoding.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(providerEncoding.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", "en-US")
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")
	queryParams.Set("vad_events", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

// SendAudio forwards one PCM-encoded chunk over the live connection.
// Callers treat failures as per-chunk and non-fatal.
func (s *TranscriptionSession) SendAudio(pcm []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("no live provider connection")
	}

	s.lastSentAt = time.Now()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, pcm); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// sendSilence forwards a synthetic silence frame during short quiet gaps.
// It does not refresh lastSentAt, so real idleness still triggers teardown.
func (s *TranscriptionSession) sendSilence(frame []byte) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return
	}
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		log.Println("Failed to write silence frame to deepgram client", "error", err)
	}
}

func (s *TranscriptionSession) sendKeepAlive() {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return
	}

	if err := s.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		log.Println("Failed to write keepalive to deepgram client", "error", err)
	}
}

func (s *TranscriptionSession) readAndProcessMessages(conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Failed to read deepgram websocket message", "error", err)
			}

			s.connMu.Lock()
			if s.conn == conn {
				s.dropConnectionLocked(StateErrored)
			}
			s.connMu.Unlock()
			conn.Close()
			return
		}
		if msgType != websocket.BinaryMessage {
			s.processMessage(msg)
		}
	}
}

func (s *TranscriptionSession) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if len(msgResp.Channel.Alternatives) == 0 {
			return
		}
		transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)

		if !msgResp.IsFinal {
			if len(transcript) > 0 {
				s.relayInterim(strings.TrimSpace(s.accumulatedTranscript + " " + transcript))
			}
			return
		}

		if len(transcript) > 0 {
			s.accumulatedTranscript += " " + transcript
		}
		if msgResp.SpeechFinal {
			s.onSpeechEnded()
		}

	case api.TypeUtteranceEndResponse:
		var msgResp api.UtteranceEndResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if s.unendedSegment {
			s.onSpeechEnded()
		}

	case api.TypeSpeechStartedResponse:
		var msgResp api.SpeechStartedResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		s.unendedSegment = true
		s.relaySpeechStarted()

	case api.TypeMetadataResponse:
		var msgResp struct {
			RequestID string `json:"request_id"`
		}
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		s.connMu.Lock()
		s.remoteSessionID = msgResp.RequestID
		s.connMu.Unlock()
	}
}

// onSpeechEnded finalizes the accumulated transcript. An empty accumulation
// is the expected "no speech" case and completes nothing.
func (s *TranscriptionSession) onSpeechEnded() {
	s.unendedSegment = false
	fullTranscript := strings.TrimSpace(s.accumulatedTranscript)
	s.accumulatedTranscript = ""
	if len(fullTranscript) > 0 {
		s.deliverFinal(fullTranscript)
	}
}

func (s *TranscriptionSession) relayInterim(transcript string) {
	s.listenerMu.Lock()
	listener := s.listener
	s.listenerMu.Unlock()
	if listener != nil {
		listener.relayInterim(transcript)
	}
}

func (s *TranscriptionSession) relaySpeechStarted() {
	s.listenerMu.Lock()
	listener := s.listener
	s.listenerMu.Unlock()
	if listener != nil {
		listener.relaySpeechStarted()
	}
}

func (s *TranscriptionSession) deliverFinal(transcript string) {
	s.listenerMu.Lock()
	listener := s.listener
	s.listenerMu.Unlock()
	if listener != nil {
		listener.deliverFinal(transcript)
	}
}
