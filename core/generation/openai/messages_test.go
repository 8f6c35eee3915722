package openai

import "testing"

func TestToMessagesInterleavesHistory(t *testing.T) {
	messages := toMessages("be brief", []historyExchange{
		{Prompt: "first prompt", Response: "first response"},
		{Prompt: "second prompt", Response: "second response"},
	})

	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}

	if messages[0].Role != messageRoleSystem || messages[0].Content != "be brief" {
		t.Fatalf("unexpected system message: %+v", messages[0])
	}
	if messages[1].Role != messageRoleUser || messages[1].Content != "first prompt" {
		t.Fatalf("unexpected first user message: %+v", messages[1])
	}
	if messages[2].Role != messageRoleAssistant || messages[2].Content != "first response" {
		t.Fatalf("unexpected first assistant message: %+v", messages[2])
	}
	if messages[4].Role != messageRoleAssistant || messages[4].Content != "second response" {
		t.Fatalf("unexpected last message: %+v", messages[4])
	}
}

func TestToMessagesSkipsEmptyInstructionsAndSides(t *testing.T) {
	messages := toMessages("", []historyExchange{
		{Prompt: "unanswered prompt"},
		{Response: "unprompted response"},
	})

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != messageRoleUser {
		t.Fatalf("expected the unanswered prompt first, got %+v", messages[0])
	}
	if messages[1].Role != messageRoleAssistant {
		t.Fatalf("expected the unprompted response second, got %+v", messages[1])
	}
}
