package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config selects and tunes the chat-completion backend. Any provider with an
// OpenAI-compatible API works; known providers get their base URL filled in.
type Config struct {
	Provider    string // "openai", "deepseek", "ollama", or any compatible provider
	Model       string
	APIKey      string
	BaseURL     string  // overrides the provider default
	MaxTokens   int     // default 2048
	Temperature float32 // default 0.7
	Timeout     int     // request timeout in seconds, default 120
}

type client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewService builds a Service from cfg.
func NewService(cfg Config) Service {
	clientConfig := openai.DefaultConfig(cfg.APIKey)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		switch cfg.Provider {
		case "deepseek":
			baseURL = "https://api.deepseek.com"
		case "ollama":
			baseURL = "http://localhost:11434/v1"
		}
	}
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120
	}

	return &client{
		api:         openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     time.Duration(timeout) * time.Second,
	}
}

// complete performs one chat-completion round trip.
func (c *client) complete(ctx context.Context, turns []Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	slog.Debug("llm: chat completion request", "model", c.model, "turns", len(turns))

	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		messages[i] = openai.ChatCompletionMessage{Role: t.Role, Content: t.Content}
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages:    messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *client) Summarize(ctx context.Context, req SummaryRequest) (string, error) {
	text, err := c.complete(ctx, []Turn{{Role: openai.ChatMessageRoleUser, Content: summaryPrompt(req)}})
	if err != nil {
		slog.Error("llm: summarize failed", "error", err)
		return "", &ServiceError{Message: MsgSummarizeFailed, Err: err}
	}
	if text == "" {
		return MsgNoSummary, nil
	}
	return text, nil
}

func (c *client) StartConversation(g Grounding) Conversation {
	transcript := make([]Turn, 0, len(g.Prior)+1)
	transcript = append(transcript, Turn{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt(g)})
	transcript = append(transcript, g.Prior...)
	return &conversation{client: c, transcript: transcript}
}

func (c *client) SummarizeConversation(ctx context.Context, turns []Turn, language string) (string, error) {
	text, err := c.complete(ctx, []Turn{{Role: openai.ChatMessageRoleUser, Content: recapPrompt(turns, language)}})
	if err != nil {
		slog.Error("llm: conversation recap failed", "error", err)
		return "", &ServiceError{Message: MsgSummarizeFailed, Err: err}
	}
	if text == "" {
		return MsgNoSummary, nil
	}
	return text, nil
}

// conversation accumulates its transcript across sends. The user/assistant
// pair is committed only after a successful round trip, so a failed send
// leaves the transcript exactly as it was.
type conversation struct {
	client     *client
	transcript []Turn
}

func (cv *conversation) Send(ctx context.Context, message string) (string, error) {
	attempt := append(append([]Turn(nil), cv.transcript...), Turn{Role: openai.ChatMessageRoleUser, Content: message})

	reply, err := cv.client.complete(ctx, attempt)
	if err != nil {
		slog.Error("llm: send failed", "error", err)
		return "", &ServiceError{Message: MsgSendFailed, Err: err}
	}
	if reply == "" {
		reply = MsgNoReply
	}
	cv.transcript = append(attempt, Turn{Role: openai.ChatMessageRoleAssistant, Content: reply})
	return reply, nil
}
