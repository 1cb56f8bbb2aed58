package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
	"github.com/smx/phishsim/internal/utils"
)

// BedrockGenerator is an implementation of the EmailGenerator interface using
// Amazon Bedrock
type BedrockGenerator struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewBedrockGenerator creates a new Bedrock email generator
func NewBedrockGenerator(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockGenerator {
	return &BedrockGenerator{
		client:        client,
		modelID:       modelID,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// GenerateEmail generates a simulation email for the given target
func (g *BedrockGenerator) GenerateEmail(ctx context.Context, target core.TargetInfo, templateType string) (*core.GeneratedEmail, error) {
	prompt := utils.BuildEmailPrompt(target, templateType)

	// Create the request based on the model
	var payload []byte
	var err error

	if g.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": g.maxTokens,
			"temperature":          g.temperature,
			"top_p":                g.topP,
		})
	} else if g.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": g.maxTokens,
				"temperature":   g.temperature,
				"topP":          g.topP,
			},
		})
	} else {
		// Default to a generic format
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  g.maxTokens,
			"temperature": g.temperature,
			"top_p":       g.topP,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &g.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	// Parse the response based on the model
	var responseText string

	if g.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		responseText = claudeResp.Completion
	} else if g.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(resp.Body, &titanResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return nil, fmt.Errorf("empty response from Titan model")
		}
		responseText = titanResp.Results[0].OutputText
	} else {
		// Try a generic approach
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal generic response: %w", err)
		}

		if genericResp.Output != "" {
			responseText = genericResp.Output
		} else if genericResp.Text != "" {
			responseText = genericResp.Text
		} else if genericResp.Response != "" {
			responseText = genericResp.Response
		} else {
			// Just use the raw response as a string
			responseText = string(resp.Body)
		}
	}

	responseText = g.textProcessor.SanitizeUTF8(responseText)
	subject, body := g.textProcessor.ParseGeneratedEmail(responseText)

	g.logger.Debug("Generated email with Bedrock",
		zap.String("model", g.modelID),
		zap.String("template_type", templateType),
		zap.String("subject", subject))

	return &core.GeneratedEmail{
		Subject:      subject,
		Body:         body,
		TemplateType: templateType,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (g *BedrockGenerator) isAnthropicModel() bool {
	return strings.HasPrefix(g.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (g *BedrockGenerator) isAmazonTitanModel() bool {
	return strings.HasPrefix(g.modelID, "amazon.titan")
}
