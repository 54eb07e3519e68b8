package llm

import (
	"fmt"
	"strings"

	"ai-analyst/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates LLM clients for a per-session credential.
type Factory struct {
	Provider           string
	Model              string
	OpenaiBaseURL      string
	OpenRouterReferrer string
	OpenRouterTitle    string
	YandexFolderID     string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		Provider:           string(cfg.LLMProvider),
		Model:              cfg.OpenAIModel,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexFolderID:     cfg.YandexFolderID,
	}
}

// CreateClient builds a client authenticated with apiKey. For the yandex
// provider the key is the OAuth token exchanged for an IAM token.
func (f *Factory) CreateClient(apiKey string) (Client, error) {
	switch strings.ToLower(f.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAI(apiKey, f.OpenaiBaseURL, f.Model, f.OpenRouterReferrer, f.OpenRouterTitle), nil
	case ProviderYandex:
		return NewYandex(apiKey, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", f.Provider)
	}
}

// ModelName reports the model label used in logs and usage events.
func (f *Factory) ModelName() string {
	if strings.ToLower(f.Provider) == ProviderYandex {
		return "yandexgpt-lite"
	}
	return f.Model
}
