package aiprovider

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nexuschat/nexus-server/internal/domain/aiquery"
)

const systemInstructionTemplate = `You are a helpful AI assistant integrated into a chat room.
The user is asking you a question directly.

Here is the recent context of the chat room for reference:
---
%s
---

Answer the user's prompt politely and concisely. If the user asks to summarize, use the context provided.
Format your response in Markdown.`

// Client implements the aiquery.Generator interface against any
// OpenAI-compatible completion endpoint.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a client for the configured endpoint and model.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Generate sends the prompt with the labeled room context embedded in the
// system instruction and returns the completion text.
func (c *Client) Generate(ctx context.Context, prompt string, contextMessages []aiquery.ContextMessage) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemInstructionTemplate, formatContext(contextMessages)),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func formatContext(contextMessages []aiquery.ContextMessage) string {
	if len(contextMessages) == 0 {
		return "(no messages yet)"
	}
	lines := make([]string, 0, len(contextMessages))
	for _, m := range contextMessages {
		lines = append(lines, m.Author+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// Ensure interface compliance.
var _ aiquery.Generator = (*Client)(nil)
