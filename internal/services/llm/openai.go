package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// chatMessage is one entry in the chat completions messages array
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the OpenAI-compatible chat completions request body
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatResponse is the subset of the chat completions response we consume
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generateWithOpenAI performs one chat completions call against the
// configured OpenAI-compatible endpoint.
func (s *Service) generateWithOpenAI(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	apiKey, err := s.resolveAPIKey(ctx, s.openaiConfig.APIKey, "openai_api_key")
	if err != nil {
		return "", err
	}

	if temperature <= 0 {
		temperature = s.openaiConfig.Temperature
	}
	if maxTokens <= 0 {
		maxTokens = s.openaiConfig.MaxTokens
	}

	body, err := json.Marshal(chatRequest{
		Model:       s.openaiConfig.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(s.openaiConfig.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(detail))}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from chat completions API")
	}

	return parsed.Choices[0].Message.Content, nil
}
