package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// getGeminiClient returns a Gemini client, creating one on first use.
// Concurrent Generate calls share the service, so creation is serialized.
func (s *Service) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()

	if s.geminiClient != nil {
		return s.geminiClient, nil
	}

	apiKey, err := s.resolveAPIKey(ctx, s.geminiConfig.APIKey, "gemini_api_key")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Gemini API key: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	s.geminiClient = client
	return client, nil
}

// generateWithGemini performs one generation call via the Gemini API
func (s *Service) generateWithGemini(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	client, err := s.getGeminiClient(ctx)
	if err != nil {
		return "", err
	}

	if temperature <= 0 {
		temperature = s.geminiConfig.Temperature
	}
	if maxTokens <= 0 {
		maxTokens = s.geminiConfig.MaxTokens
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, s.geminiConfig.Model, contents, config)
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}

	return text, nil
}
