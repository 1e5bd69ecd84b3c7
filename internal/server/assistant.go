package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/zhubert/travelchat/internal/api"
)

// SystemPrompt frames every conversation with the model.
const SystemPrompt = "You are a helpful travel documentation assistant."

// historyLimit caps how many earlier messages are sent along with a question.
const historyLimit = 20

// Assistant answers a question in the context of a thread's history.
type Assistant interface {
	Reply(ctx context.Context, history []api.Message, question string) (string, error)
}

// LLMAssistant answers through a langchaingo model.
type LLMAssistant struct {
	model llms.Model
}

// NewLLMAssistant wraps model.
func NewLLMAssistant(model llms.Model) *LLMAssistant {
	return &LLMAssistant{model: model}
}

// NewOpenAIAssistant builds an assistant backed by the OpenAI chat API, or
// any server speaking it when baseURL is set.
func NewOpenAIAssistant(token, baseURL, model string) (*LLMAssistant, error) {
	opts := []openai.Option{openai.WithToken(token)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return NewLLMAssistant(llm), nil
}

// NewAssistant picks the OpenAI assistant when a key is configured and the
// offline one otherwise.
func NewAssistant(cfg *Config) (*LLMAssistant, error) {
	if !cfg.Online() {
		return NewLLMAssistant(offlineModel{}), nil
	}
	return NewOpenAIAssistant(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
}

// Reply sends the system prompt, the most recent history and the question.
func (a *LLMAssistant) Reply(ctx context.Context, history []api.Message, question string) (string, error) {
	resp, err := a.model.GenerateContent(ctx, buildPrompt(history, question))
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func buildPrompt(history []api.Message, question string) []llms.MessageContent {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	msgs := make([]llms.MessageContent, 0, len(history)+2)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt))
	for _, m := range history {
		role := llms.ChatMessageTypeHuman
		if m.Role == api.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, m.Content))
	}
	return append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, question))
}

// OfflineReply is what the backend answers with when no model is configured.
const OfflineReply = "I'm running without a language model right now, so I can't research %q. " +
	"Set OPENAI_API_KEY and restart the backend to get real travel advice."

// offlineModel is an llms.Model that never leaves the machine.
type offlineModel struct{}

func (offlineModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var question string
	if n := len(messages); n > 0 {
		for _, part := range messages[n-1].Parts {
			if text, ok := part.(llms.TextContent); ok {
				question += text.Text
			}
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: fmt.Sprintf(OfflineReply, question)}},
	}, nil
}

func (m offlineModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}
