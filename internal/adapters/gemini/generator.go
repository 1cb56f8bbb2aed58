package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/utils"
)

// GeminiGenerator is an implementation of the EmailGenerator interface using
// Google Gemini
type GeminiGenerator struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiGenerator creates a new Gemini email generator
func NewGeminiGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	topK int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiGenerator, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetTopK(int32(topK))
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiGenerator{
		client:        client,
		model:         model,
		modelName:     modelName,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// GenerateEmail generates a simulation email for the given target
func (g *GeminiGenerator) GenerateEmail(ctx context.Context, target core.TargetInfo, templateType string) (*core.GeneratedEmail, error) {
	prompt := utils.BuildEmailPrompt(target, templateType)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := g.textProcessor.SanitizeUTF8(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	subject, body := g.textProcessor.ParseGeneratedEmail(responseText)

	g.logger.Debug("Generated email with Gemini",
		zap.String("model", g.modelName),
		zap.String("template_type", templateType),
		zap.String("subject", subject))

	return &core.GeneratedEmail{
		Subject:      subject,
		Body:         body,
		TemplateType: templateType,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}
