package agents

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/quantalpha/quantalpha/config"
	"github.com/quantalpha/quantalpha/internal/models"
)

const (
	deepseekBaseURL = "https://api.deepseek.com/v1"
	// Gemini's OpenAI-compatible endpoint; lets every seat go through the
	// same chat-model interface regardless of provider.
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	defaultMaxTokens = 8192
)

// Caller invokes one agent seat and returns its text output. The workflow
// depends on this interface, not on a concrete model client.
type Caller interface {
	Invoke(ctx context.Context, cfg models.AgentConfig, systemPrompt, userPrompt string) (string, error)
}

// EinoCaller dispatches seats to DeepSeek- or Gemini-backed eino chat
// models. A seat's model is resolved once from its config and reused for
// the rest of the process.
type EinoCaller struct {
	cfg *config.Config

	mu     sync.Mutex
	models map[modelKey]model.BaseChatModel
}

type modelKey struct {
	provider    models.ModelProvider
	model       string
	temperature float64
}

func NewEinoCaller(cfg *config.Config) *EinoCaller {
	return &EinoCaller{
		cfg:    cfg,
		models: make(map[modelKey]model.BaseChatModel),
	}
}

func (c *EinoCaller) Invoke(ctx context.Context, cfg models.AgentConfig, systemPrompt, userPrompt string) (string, error) {
	chatModel, err := c.modelFor(ctx, cfg)
	if err != nil {
		return "", err
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt),
	}

	resp, err := chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%s (%s/%s): %w", cfg.Name, cfg.Provider, cfg.Model, err)
	}
	return resp.Content, nil
}

func (c *EinoCaller) modelFor(ctx context.Context, cfg models.AgentConfig) (model.BaseChatModel, error) {
	key := modelKey{provider: cfg.Provider, model: cfg.Model, temperature: cfg.Temperature}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.models[key]; ok {
		return m, nil
	}

	m, err := c.buildModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.models[key] = m
	return m, nil
}

// buildModel is the single place the provider union is unpacked.
func (c *EinoCaller) buildModel(ctx context.Context, cfg models.AgentConfig) (model.BaseChatModel, error) {
	switch cfg.Provider {
	case models.ProviderDeepSeek:
		if c.cfg.DeepSeekAPIKey == "" {
			return nil, fmt.Errorf("seat %s needs DEEPSEEK_API_KEY", cfg.Role)
		}
		temperature := float32(cfg.Temperature)
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			BaseURL:     deepseekBaseURL,
			APIKey:      c.cfg.DeepSeekAPIKey,
			Model:       cfg.Model,
			MaxTokens:   defaultMaxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek model for %s: %w", cfg.Role, err)
		}
		return chatModel, nil

	case models.ProviderGemini:
		if c.cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("seat %s needs GEMINI_API_KEY", cfg.Role)
		}
		maxTokens := defaultMaxTokens
		temperature := float32(cfg.Temperature)
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     geminiBaseURL,
			APIKey:      c.cfg.GeminiAPIKey,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini model for %s: %w", cfg.Role, err)
		}
		return chatModel, nil

	default:
		return nil, fmt.Errorf("unknown model provider %q for seat %s", cfg.Provider, cfg.Role)
	}
}
