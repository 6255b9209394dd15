package llm

import (
	"context"
	"strings"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any LLM backend. Callers get plain text
// back; extracting structure out of it is the caller's problem.
type Provider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// StreamingProvider is implemented by backends that can stream completions.
// Used as a fallback transport when the blocking call fails; the caller
// concatenates chunks in arrival order.
type StreamingProvider interface {
	Stream(ctx context.Context, prompt string, options ...Option) (<-chan string, error)
}

// GenerateWithFallback runs a blocking completion and, when that fails and
// the provider can stream, retries over the streaming transport.
func GenerateWithFallback(ctx context.Context, p Provider, prompt string, options ...Option) (string, error) {
	content, err := p.Generate(ctx, prompt, options...)
	if err == nil {
		return content, nil
	}

	sp, ok := p.(StreamingProvider)
	if !ok {
		return "", err
	}
	chunks, serr := sp.Stream(ctx, prompt, options...)
	if serr != nil {
		return "", err
	}
	var sb strings.Builder
	for chunk := range chunks {
		sb.WriteString(chunk)
	}
	if sb.Len() == 0 {
		return "", err
	}
	return sb.String(), nil
}
