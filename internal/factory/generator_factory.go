package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/adapters/bedrock"
	"github.com/smx/phishsim/internal/adapters/gemini"
	"github.com/smx/phishsim/internal/adapters/openai"
	"github.com/smx/phishsim/internal/config"
	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/utils"
)

// GeneratorFactory creates email generators based on configuration
type GeneratorFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeneratorFactory creates a new generator factory
func NewGeneratorFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *GeneratorFactory {
	return &GeneratorFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateGenerator creates an email generator for the configured LLM provider
func (f *GeneratorFactory) CreateGenerator() (core.EmailGenerator, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		if geminiCfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		factory := gemini.NewFactory(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			geminiCfg.TopK,
			f.logger,
			f.textProcessor,
		)
		return factory.CreateGenerator()
	case "openai":
		if f.cfg.GetOpenAI().APIKey == "" {
			return nil, fmt.Errorf("openai API key is required")
		}
		factory := openai.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateGenerator()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateGenerator()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
