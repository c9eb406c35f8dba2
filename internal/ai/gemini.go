package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/gravadigital/convite-api/internal/logger"
)

// Gemini drafts messages with the Gemini API
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *log.Logger
}

// NewGemini creates a Gemini-backed generator
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:  client,
		model:   model,
		timeout: timeout,
		log:     logger.Service("gemini"),
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, req MessageRequest) (string, error) {
	prompt, err := RenderPrompt(req)
	if err != nil {
		return "", err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.8),
	})
	if err != nil {
		g.log.Error("Gemini request failed", "model", g.model, "error", err, "duration", time.Since(start))
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		g.log.Warn("Gemini returned no text", "model", g.model)
		return "", ErrEmptyOutput
	}

	g.log.Info("Message generated", "kind", req.Kind, "model", g.model, "duration", time.Since(start))
	return text, nil
}
