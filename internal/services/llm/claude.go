package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// getClaudeClient returns a Claude client, creating one on first use.
// Concurrent Generate calls share the service, so creation is serialized.
func (s *Service) getClaudeClient(ctx context.Context) (anthropic.Client, error) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()

	if s.claudeAPIKey != "" {
		return s.claudeClient, nil
	}

	apiKey, err := s.resolveAPIKey(ctx, s.claudeConfig.APIKey, "anthropic_api_key")
	if err != nil {
		return anthropic.Client{}, fmt.Errorf("failed to resolve Anthropic API key: %w", err)
	}

	s.claudeClient = anthropic.NewClient(option.WithAPIKey(apiKey))
	s.claudeAPIKey = apiKey
	return s.claudeClient, nil
}

// generateWithClaude performs one generation call via the Anthropic API
func (s *Service) generateWithClaude(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	client, err := s.getClaudeClient(ctx)
	if err != nil {
		return "", err
	}

	if temperature <= 0 {
		temperature = s.claudeConfig.Temperature
	}
	if maxTokens <= 0 {
		maxTokens = s.claudeConfig.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.claudeConfig.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(float64(temperature))
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from Claude API")
	}

	return text.String(), nil
}
