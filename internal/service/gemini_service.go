package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/config"
	"google.golang.org/genai"
)

type GeminiServiceInterface interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type GeminiService struct {
	Client            *genai.Client
	Model             string
	Temperature       float32
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	CircuitCooldown   time.Duration
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
	circuitOpenedAt   atomic.Int64
	now               func() time.Time
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	geminiConfig := config.LoadGeminiConfig()
	apiKey := geminiConfig.APIKey
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiService{
		Client:            client,
		Model:             geminiConfig.Model,
		Temperature:       0.7,
		MaxRetries:        2,
		BaseDelay:         time.Second,
		MaxDelay:          10 * time.Second,
		RequestTimeout:    30 * time.Second,
		CircuitCooldown:   30 * time.Second,
		circuitBreakerMax: 5,
	}, nil
}

// GenerateJSON asks the model for a JSON-only answer and returns its text.
func (s *GeminiService) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	if err := s.checkCircuit(); err != nil {
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			log.Printf("Retry attempt %d/%d for GenerateJSON after %v", attempt, s.MaxRetries, delay)

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return "", fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		genConfig := &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(s.Temperature),
			ResponseMIMEType: "application/json",
		}

		result, err := s.Client.Models.GenerateContent(
			timeoutCtx,
			s.Model,
			genai.Text(prompt),
			genConfig,
		)

		if err == nil {
			s.consecutiveErrors.Store(0)
			if err := s.validateGenerateResponse(result); err != nil {
				return "", fmt.Errorf("invalid response: %w", err)
			}
			return result.Text(), nil
		}

		lastErr = err

		if !s.isRetryableError(err) {
			log.Printf("Non-retryable error: %v", err)
			s.recordFailure()
			return "", fmt.Errorf("generate content failed: %w", err)
		}

		log.Printf("Retryable error on attempt %d: %v", attempt+1, err)
	}

	s.recordFailure()
	return "", fmt.Errorf("max retries (%d) exceeded for GenerateJSON: %w", s.MaxRetries, lastErr)
}

// checkCircuit fails fast while the breaker is open. Once CircuitCooldown
// has passed since it opened, a single caller is let through as a trial;
// the others keep failing until that trial succeeds or re-opens the breaker.
func (s *GeminiService) checkCircuit() error {
	n := s.consecutiveErrors.Load()
	if n < s.circuitBreakerMax {
		return nil
	}
	openedAt := s.circuitOpenedAt.Load()
	now := s.clock()
	if now.Sub(time.Unix(0, openedAt)) >= s.cooldown() && s.circuitOpenedAt.CompareAndSwap(openedAt, now.UnixNano()) {
		log.Printf("Circuit breaker half-open after %d consecutive errors, allowing trial request", n)
		return nil
	}
	return fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", n)
}

func (s *GeminiService) recordFailure() {
	if s.consecutiveErrors.Add(1) >= s.circuitBreakerMax {
		s.circuitOpenedAt.Store(s.clock().UnixNano())
	}
}

func (s *GeminiService) cooldown() time.Duration {
	if s.CircuitCooldown <= 0 {
		return 30 * time.Second
	}
	return s.CircuitCooldown
}

func (s *GeminiService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))

	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}

	jitter := time.Duration(float64(delay) * 0.25)
	delay = delay - jitter/2 + time.Duration(float64(jitter)*0.5)

	return delay
}

func (s *GeminiService) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}
	if apiErr, ok := err.(*genai.APIError); ok {
		switch apiErr.Code {
		case 429: // Rate limit
			return true
		case 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}

	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF") {
		return true
	}

	return false
}

func (s *GeminiService) validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}

	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}

	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}

	return nil
}
