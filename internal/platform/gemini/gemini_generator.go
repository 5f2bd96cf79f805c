// Package gemini implements the generation interfaces using Google's
// Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/vitaehq/vitae-api/internal/config"
	"github.com/vitaehq/vitae-api/internal/generation"
	"google.golang.org/genai"
)

// GeminiGenerator implements generation.RecordExtractor and
// generation.ResumeGenerator against the Gemini API. All calls request a
// JSON response and go through callWithRetry, which retries transient
// failures with exponential backoff.
type GeminiGenerator struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a new GeminiGenerator with the provided
// dependencies. Returns generation.ErrInvalidConfig if the configuration
// is incomplete.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger: logger,
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// ExtractRecords derives candidate education, employment and skill lists
// from document text.
func (g *GeminiGenerator) ExtractRecords(ctx context.Context, text string) (*generation.ExtractedProfile, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: document text cannot be empty", generation.ErrInvalidResponse)
	}

	raw, err := g.callWithRetry(ctx, buildExtractionPrompt(text))
	if err != nil {
		return nil, err
	}

	var profile generation.ExtractedProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("%w: failed to parse extraction response: %v",
			generation.ErrInvalidResponse, err)
	}

	g.logger.InfoContext(ctx, "extracted candidate records",
		"education_count", len(profile.Education),
		"employment_count", len(profile.Employment),
		"skill_count", len(profile.Skills))

	return &profile, nil
}

// ExtractEmployment parses a freeform career narrative into at most one
// candidate employment entry.
func (g *GeminiGenerator) ExtractEmployment(ctx context.Context, narrative string) (*generation.CandidateEmployment, error) {
	if narrative == "" {
		return nil, fmt.Errorf("%w: narrative cannot be empty", generation.ErrInvalidResponse)
	}

	raw, err := g.callWithRetry(ctx, buildNarrativePrompt(narrative))
	if err != nil {
		return nil, err
	}

	var resp narrativeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse narrative response: %v",
			generation.ErrInvalidResponse, err)
	}

	return resp.Employment, nil
}

// GenerateResume produces a structured resume tailored to input's job
// listing. The returned payload conforms to the fixed resume schema.
func (g *GeminiGenerator) GenerateResume(ctx context.Context, input generation.ResumeInput) (json.RawMessage, error) {
	prompt, err := buildResumePrompt(input)
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Unmarshal once to verify the payload conforms before it is stored.
	var resume resumeSchema
	if err := json.Unmarshal(raw, &resume); err != nil {
		return nil, fmt.Errorf("%w: failed to parse resume response: %v",
			generation.ErrInvalidResponse, err)
	}
	if resume.Summary == "" && len(resume.Experience) == 0 {
		return nil, fmt.Errorf("%w: resume response is empty", generation.ErrInvalidResponse)
	}

	return raw, nil
}

// callWithRetry makes a Gemini API call with exponential backoff retry
// logic. Transient errors are retried up to config.MaxRetries times;
// permanent errors (blocked content, malformed responses) are returned
// immediately.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (json.RawMessage, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		raw, err, transient := g.callOnce(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return raw, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return nil, err
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay_seconds", delay.Seconds())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single API call and classifies the failure mode.
// The third return value reports whether the error is worth retrying.
func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (json.RawMessage, error, bool) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrUpstream, err), true
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse), false
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked), false
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse), false
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: response is not valid JSON", generation.ErrInvalidResponse), false
	}

	return json.RawMessage(text), nil, false
}
