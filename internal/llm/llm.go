package llm

import (
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"devbot/internal/common"
	"devbot/internal/config"
	"devbot/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// NewProvider builds the chat-completion provider for the configured
// credential, falling back to the local stub when no key is set.
func NewProvider(cfg config.Config) Provider {
	logger := common.Logger()
	if cfg.ModelConfigured() {
		opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIKey)}
		if cfg.OpenAIEndpoint != "" {
			logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", cfg.OpenAIEndpoint)
			opts = append(opts, option.WithBaseURL(cfg.OpenAIEndpoint))
		}
		client := openai.NewClient(opts...)
		logger.Info("llm: OpenAI provider selected")
		return providers.NewOpenAIProvider(client, cfg.ChatModel)
	}
	logger.Warn("llm: model credential not set; falling back to local provider")
	return providers.NewLocalProvider()
}
