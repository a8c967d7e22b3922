// Package llm describes the upstream language model the enrichment endpoints call.
package llm

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// ErrNotConfigured is returned when a provider has no API credential.
var ErrNotConfigured = errors.New("llm provider is not configured")

// TextRequest asks for a text completion.
type TextRequest struct {
	Prompt    string
	MaxTokens int
}

// ImageRequest asks the model to answer Prompt about Image.
type ImageRequest struct {
	Prompt    string
	Image     []byte
	MediaType string
	MaxTokens int
}

// Provider is a language model reachable over the network.
type Provider interface {
	Name() string
	Configured() bool
	Complete(ctx context.Context, req TextRequest) (string, error)
	DescribeImage(ctx context.Context, req ImageRequest) (string, error)
}

// MediaTypeFromPath guesses the image media type from the file extension.
func MediaTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
