package gemini

import (
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/utils"
)

// Factory creates new instances of GeminiGenerator
type Factory struct {
	apiKey        string
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	topK          int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for GeminiGenerator instances
func NewFactory(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	topK int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Factory {
	return &Factory{
		apiKey:        apiKey,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		topK:          topK,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateGenerator creates a new GeminiGenerator
func (f *Factory) CreateGenerator() (core.EmailGenerator, error) {
	return NewGeminiGenerator(
		f.apiKey,
		f.modelName,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.topK,
		f.logger,
		f.textProcessor,
	)
}
