// -----------------------------------------------------------------------
// LLM Service - Provider-dispatched content generation with retry/backoff
// -----------------------------------------------------------------------

package llm

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/studyforge/studyforge/internal/common"
	"github.com/studyforge/studyforge/internal/interfaces"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderOpenAI speaks the OpenAI-compatible chat completions protocol
	ProviderOpenAI ProviderType = "openai"
	// ProviderClaude uses the Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses the Google Gemini API
	ProviderGemini ProviderType = "gemini"
)

// maxConcurrentCalls caps simultaneous outbound LLM requests: three modules
// per batch with two sub-calls each.
const maxConcurrentCalls = 6

// Service generates content through the configured provider. It implements
// interfaces.Generator and owns retry, backoff, rate limiting, and the
// per-call timeout.
type Service struct {
	llmConfig    *common.LLMConfig
	openaiConfig *common.OpenAIConfig
	claudeConfig *common.ClaudeConfig
	geminiConfig *common.GeminiConfig
	kvStorage    interfaces.KeyValueStorage
	logger       arbor.ILogger

	httpClient *http.Client

	// clientMu guards the lazily created SDK clients; Generate runs on up
	// to six goroutines at once.
	clientMu     sync.Mutex
	claudeClient anthropic.Client
	claudeAPIKey string
	geminiClient *genai.Client

	limiter     *rate.Limiter
	retryConfig RetryConfig
	callTimeout time.Duration
}

// Compile-time interface assertion
var _ interfaces.Generator = (*Service)(nil)

// NewService creates a new generation service
func NewService(config *common.Config, kvStorage interfaces.KeyValueStorage, logger arbor.ILogger) *Service {
	callTimeout := config.Pipeline.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 5 * time.Minute
	}

	return &Service{
		llmConfig:    &config.LLM,
		openaiConfig: &config.OpenAI,
		claudeConfig: &config.Claude,
		geminiConfig: &config.Gemini,
		kvStorage:    kvStorage,
		logger:       logger,
		httpClient:   &http.Client{Timeout: callTimeout},
		limiter:      rate.NewLimiter(rate.Limit(maxConcurrentCalls), maxConcurrentCalls),
		retryConfig:  NewDefaultRetryConfig(),
		callTimeout:  callTimeout,
	}
}

// Generate sends a single-prompt completion request to the default provider
// and returns the raw model text. Only rate-limited responses are retried;
// the call as a whole is bounded by the configured timeout.
func (s *Service) Generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return "", newGenerationError(0, err)
	}

	provider := ProviderType(s.llmConfig.DefaultProvider)

	s.logger.Debug().
		Str("provider", string(provider)).
		Int("prompt_len", len(prompt)).
		Int("max_tokens", maxTokens).
		Msg("Generating content")

	var call func(context.Context, string, float32, int) (string, error)
	switch provider {
	case ProviderClaude:
		call = s.generateWithClaude
	case ProviderGemini:
		call = s.generateWithGemini
	default:
		call = s.generateWithOpenAI
	}

	return s.withRetry(ctx, call, prompt, temperature, maxTokens)
}

// withRetry runs one provider call, retrying only on rate-limit errors with
// exponential backoff. Any other failure propagates immediately.
func (s *Service) withRetry(ctx context.Context, call func(context.Context, string, float32, int) (string, error), prompt string, temperature float32, maxTokens int) (string, error) {
	var lastErr error

	for attempt := 0; attempt < s.retryConfig.MaxAttempts; attempt++ {
		text, err := call(ctx, prompt, temperature, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !IsRateLimitError(err) {
			return "", newGenerationError(attempt+1, err)
		}
		if attempt == s.retryConfig.MaxAttempts-1 {
			break
		}

		backoff := s.retryConfig.Backoff(attempt)
		s.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(err).
			Msg("Rate limited, retrying generation call")

		select {
		case <-ctx.Done():
			return "", newGenerationError(attempt+1, ctx.Err())
		case <-time.After(backoff):
		}
	}

	return "", newGenerationError(s.retryConfig.MaxAttempts, lastErr)
}

// resolveAPIKey returns the configured key, falling back to KV storage
func (s *Service) resolveAPIKey(ctx context.Context, configValue, kvKey string) (string, error) {
	if configValue != "" {
		return configValue, nil
	}
	if s.kvStorage != nil {
		if value, err := s.kvStorage.Get(ctx, kvKey); err == nil && value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("no API key configured (set config value or %s)", kvKey)
}

// Close releases provider clients
func (s *Service) Close() error {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()

	s.geminiClient = nil
	s.claudeClient = anthropic.Client{}
	s.claudeAPIKey = ""
	return nil
}
