package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sonavox/liveturn-core/core/generation"
)

func TestSegmentsStreamsDeltaContent(t *testing.T) {
	var observed requestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&observed); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" there\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model", WithBaseURL(server.URL))
	stream := client.PromptWithStream(context.Background(), "hi",
		[]generation.Exchange{{Prompt: "earlier", Response: "ok"}},
		generation.WithInstructions("be brief"),
	)

	response := strings.Builder{}
	for segment, err := range stream.Segments(context.Background()) {
		if err != nil {
			t.Fatalf("expected a clean stream, got %v", err)
		}
		response.WriteString(segment)
	}

	if response.String() != "Hello there" {
		t.Fatalf("expected the concatenated deltas, got %q", response.String())
	}

	if !observed.Stream {
		t.Fatalf("expected a streaming request")
	}
	if observed.Model != "test-model" {
		t.Fatalf("expected the configured model, got %q", observed.Model)
	}
	if len(observed.Messages) != 4 {
		t.Fatalf("expected system + history pair + prompt, got %d messages", len(observed.Messages))
	}
	if last := observed.Messages[len(observed.Messages)-1]; last.Role != messageRoleUser || last.Content != "hi" {
		t.Fatalf("expected the prompt as the last message, got %+v", last)
	}
}

func TestSegmentsSurfacesNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model", WithBaseURL(server.URL))
	stream := client.PromptWithStream(context.Background(), "hi", nil)

	var streamErr error
	for _, err := range stream.Segments(context.Background()) {
		if err != nil {
			streamErr = err
			break
		}
	}

	if streamErr == nil {
		t.Fatalf("expected the stream to surface the HTTP error")
	}
}

func TestSegmentsStructuredOutputRequestsJSONSchema(t *testing.T) {
	type weather struct {
		City string `json:"city"`
	}

	var observed requestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&observed)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model", WithBaseURL(server.URL))
	stream := client.PromptWithStream(context.Background(), "hi", nil,
		generation.WithStructuredOutput("weather", &weather{}))

	for _, err := range stream.Segments(context.Background()) {
		if err != nil {
			t.Fatalf("expected a clean stream, got %v", err)
		}
	}

	if observed.ResponseFormat == nil || observed.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected a json_schema response format, got %+v", observed.ResponseFormat)
	}
	if observed.ResponseFormat.JSONSchema == nil || observed.ResponseFormat.JSONSchema.Name != "weather" {
		t.Fatalf("expected the named schema, got %+v", observed.ResponseFormat.JSONSchema)
	}
}
