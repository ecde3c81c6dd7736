package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/FileLanderScaner/ANALYZER/internal/config"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/sirupsen/logrus"
)

// InitGenkitApp validates cfg and creates a Genkit app with the matching provider plugin.
// Supports: gemini, openai, ollama, localai, lm-studio
func InitGenkitApp(ctx context.Context, cfg config.LLMConfig) (*genkit.Genkit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM configuration: %w", err)
	}

	switch cfg.Provider {
	case "gemini":
		return genkit.Init(
			ctx, genkit.WithPlugins(
				&googlegenai.GoogleAI{
					APIKey: cfg.APIKey,
				},
			),
		), nil

	case "openai", "ollama", "localai", "lm-studio":
		return genkit.Init(
			ctx, genkit.WithPlugins(
				&compat_oai.OpenAICompatible{
					Provider: cfg.Provider,
					APIKey:   cfg.APIKey,
					BaseURL:  cfg.BaseURL,
				},
			),
		), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// FlowConfig - общие параметры для всех flow
type FlowConfig struct {
	ModelName  string
	MaxRetries int
	Logger     logrus.FieldLogger
}

func (c FlowConfig) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// middlewares is the stack applied to every generation call.
func (c FlowConfig) middlewares() []ai.ModelMiddleware {
	return []ai.ModelMiddleware{
		RetryMiddleware(c.logger(), c.MaxRetries, 1*time.Second),
	}
}

func (c FlowConfig) generateOptions(prompt string) []ai.GenerateOption {
	return []ai.GenerateOption{
		ai.WithModelName(c.ModelName),
		ai.WithPrompt(prompt),
		ai.WithMiddleware(c.middlewares()...),
	}
}
