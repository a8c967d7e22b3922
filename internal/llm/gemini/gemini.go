// Package gemini talks to Google Gemini through the generative-ai-go SDK.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/dtroode/bookshelf-server/internal/llm"
)

const (
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 30 * time.Second
)

// Config captures the runtime settings required to talk to Gemini.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Gemini is a Provider backed by Google Gemini.
type Gemini struct {
	cfg Config
}

var _ llm.Provider = (*Gemini)(nil)

// New returns a new Gemini provider.
func New(cfg Config) *Gemini {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Gemini{cfg: cfg}
}

func (g *Gemini) Name() string {
	return "Gemini"
}

func (g *Gemini) Configured() bool {
	return g.cfg.APIKey != ""
}

// Complete generates text for a single prompt.
func (g *Gemini) Complete(ctx context.Context, req llm.TextRequest) (string, error) {
	return g.generate(ctx, req.MaxTokens, genai.Text(req.Prompt))
}

// DescribeImage sends the image followed by the instruction text.
func (g *Gemini) DescribeImage(ctx context.Context, req llm.ImageRequest) (string, error) {
	return g.generate(ctx, req.MaxTokens, genai.ImageData(imageFormat(req.MediaType), req.Image), genai.Text(req.Prompt))
}

func (g *Gemini) generate(ctx context.Context, maxTokens int, parts ...genai.Part) (string, error) {
	if !g.Configured() {
		return "", llm.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.cfg.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.cfg.Model)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return firstText(resp)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return sb.String(), nil
}

// imageFormat turns "image/png" into the "png" format genai expects.
func imageFormat(mediaType string) string {
	format := strings.TrimPrefix(mediaType, "image/")
	if format == "" {
		return "jpeg"
	}
	return format
}
