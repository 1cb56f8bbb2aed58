package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/utils"
)

// OpenAIGenerator is an implementation of the EmailGenerator interface using
// OpenAI chat completions
type OpenAIGenerator struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIGenerator creates a new OpenAI email generator
func NewOpenAIGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIGenerator {
	client := openai.NewClient(apiKey)

	return &OpenAIGenerator{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// GenerateEmail generates a simulation email for the given target
func (g *OpenAIGenerator) GenerateEmail(ctx context.Context, target core.TargetInfo, templateType string) (*core.GeneratedEmail, error) {
	prompt := utils.BuildEmailPrompt(target, templateType)

	req := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write internal corporate emails for security awareness simulations. Respond with the email only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	responseText := g.textProcessor.SanitizeUTF8(resp.Choices[0].Message.Content)
	subject, body := g.textProcessor.ParseGeneratedEmail(responseText)

	g.logger.Debug("Generated email with OpenAI",
		zap.String("model", g.modelName),
		zap.String("template_type", templateType),
		zap.String("processing_id", resp.ID),
		zap.String("subject", subject))

	return &core.GeneratedEmail{
		Subject:      subject,
		Body:         body,
		TemplateType: templateType,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}
