package openai

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

func toMessages(instructions string, history []historyExchange) []message {
	messages := []message{}
	if instructions != "" {
		messages = append(messages, message{Role: messageRoleSystem, Content: instructions})
	}

	for _, exchange := range history {
		if exchange.Prompt != "" {
			messages = append(messages, message{Role: messageRoleUser, Content: exchange.Prompt})
		}
		if exchange.Response != "" {
			messages = append(messages, message{Role: messageRoleAssistant, Content: exchange.Response})
		}
	}

	return messages
}

type historyExchange struct {
	Prompt   string
	Response string
}

type requestBody struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string                `json:"type"`
	JSONSchema *responseFormatSchema `json:"json_schema,omitempty"`
}

type responseFormatSchema struct {
	Name   string `json:"name"`
	Schema any    `json:"schema"`
	Strict bool   `json:"strict"`
}

type streamingResponseBody struct {
	Choices []struct {
		Delta struct {
			Content      string  `json:"content"`
			FinishReason *string `json:"finish_reason"`
		} `json:"delta"`
	} `json:"choices"`
}
