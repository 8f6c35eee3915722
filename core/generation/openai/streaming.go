// Package openai streams responses from an OpenAI-compatible chat
// completions endpoint.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
	"github.com/sonavox/liveturn-core/core/generation"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultURL = "https://api.openai.com/v1/chat/completions"

	chunkPrefix = "data:"
	endMessage  = "[DONE]"
)

type Client struct {
	apiKey string
	model  string
	url    string
}

type Option func(*Client)

// WithBaseURL points the client at a compatible non-OpenAI endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

func NewClient(apiKey, model string, opts ...Option) *Client {
	client := &Client{apiKey: apiKey, model: model, url: defaultURL}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) PromptWithStream(_ context.Context, prompt string, history []generation.Exchange, opts ...generation.PromptOption) generation.Stream {
	options := generation.PromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	var clonedHistory []historyExchange
	copier.Copy(&clonedHistory, history)

	messages := toMessages(options.Instructions, clonedHistory)
	messages = append(messages, message{Role: messageRoleUser, Content: prompt})

	var format *responseFormat
	if options.StructuredOutputType != nil {
		format = &responseFormat{
			Type: "json_schema",
			JSONSchema: &responseFormatSchema{
				Name:   options.StructuredOutputName,
				Schema: jsonschema.Reflect(options.StructuredOutputType),
				Strict: true,
			},
		}
	}

	return &stream{
		apiKey:   c.apiKey,
		model:    c.model,
		url:      c.url,
		messages: messages,
		format:   format,
	}
}

type stream struct {
	apiKey string
	model  string
	url    string

	messages []message
	format   *responseFormat
}

func (s *stream) Segments(ctx context.Context) func(yield func(segment string, err error) bool) {
	return func(yield func(string, error) bool) {
		ctx, span := tracer.Start(ctx, "prompt generation stream")
		defer span.End()
		span.SetAttributes(attribute.String("request.model", s.model))

		reqBody := requestBody{
			Model:          s.model,
			Messages:       s.messages,
			Stream:         true,
			ResponseFormat: s.format,
		}

		requestBodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			err = fmt.Errorf("error marshalling JSON: %w", err)
			span.RecordError(err)
			yield("", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", s.url, bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			err = fmt.Errorf("error creating HTTP request: %w", err)
			span.RecordError(err)
			yield("", err)
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.apiKey)

		client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)}

		requestStarted := time.Now()
		span.AddEvent("request started")
		resp, err := client.Do(req)
		if err != nil {
			err = fmt.Errorf("error sending request: %w", err)
			span.RecordError(err)
			yield("", err)
			return
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
		if resp.StatusCode != http.StatusOK {
			if errorBody, err := io.ReadAll(resp.Body); err == nil {
				span.SetAttributes(attribute.String("response.error", string(errorBody)))
			}

			err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
			span.RecordError(err)
			yield("", err)
			return
		}

		firstToken := true
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			chunk := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), chunkPrefix))
			if len(chunk) == 0 {
				continue
			}
			if chunk == endMessage {
				break
			}

			if firstToken {
				firstToken = false
				span.AddEvent("received first chunk", trace.WithAttributes(
					attribute.Float64("response.request_to_first_token_time", time.Since(requestStarted).Seconds())))
			}

			var responseBody streamingResponseBody
			if err := json.Unmarshal([]byte(chunk), &responseBody); err != nil {
				err = fmt.Errorf("error unmarshalling JSON: %w", err)
				span.RecordError(err)
				if !yield("", err) {
					return
				}
				continue
			}

			if len(responseBody.Choices) > 0 && responseBody.Choices[0].Delta.Content != "" {
				if !yield(responseBody.Choices[0].Delta.Content, nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("error reading streamed response: %w", err))
			return
		}
	}
}
