package openai

import (
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/config"
	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/utils"
)

// Factory creates new instances of OpenAIGenerator
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for OpenAIGenerator instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateGenerator creates a new OpenAIGenerator
func (f *Factory) CreateGenerator() (core.EmailGenerator, error) {
	openaiCfg := f.cfg.GetOpenAI()

	return NewOpenAIGenerator(
		openaiCfg.APIKey,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.logger,
		f.textProcessor,
	), nil
}
