package llm

import (
	"context"
	"errors"
	"testing"
)

type blockingStub struct {
	content string
	err     error
}

func (s *blockingStub) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return s.content, s.err
}

func (s *blockingStub) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return s.content, s.err
}

type streamingStub struct {
	blockingStub
	chunks    []string
	streamErr error
}

func (s *streamingStub) Stream(ctx context.Context, prompt string, options ...Option) (<-chan string, error) {
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	out := make(chan string, len(s.chunks))
	for _, c := range s.chunks {
		out <- c
	}
	close(out)
	return out, nil
}

func TestGenerateWithFallbackBlockingSucceeds(t *testing.T) {
	p := &blockingStub{content: "ok"}
	got, err := GenerateWithFallback(context.Background(), p, "prompt")
	if err != nil || got != "ok" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestGenerateWithFallbackUsesStream(t *testing.T) {
	p := &streamingStub{
		blockingStub: blockingStub{err: errors.New("connection reset")},
		chunks:       []string{"hel", "lo"},
	}
	got, err := GenerateWithFallback(context.Background(), p, "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("got %q, want concatenated chunks", got)
	}
}

func TestGenerateWithFallbackReturnsOriginalError(t *testing.T) {
	wantErr := errors.New("connection reset")

	// Non-streaming provider: the blocking error surfaces as-is.
	if _, err := GenerateWithFallback(context.Background(), &blockingStub{err: wantErr}, "p"); err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}

	// Stream setup fails: still the blocking error.
	p := &streamingStub{blockingStub: blockingStub{err: wantErr}, streamErr: errors.New("no stream")}
	if _, err := GenerateWithFallback(context.Background(), p, "p"); err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}

	// Stream yields nothing: still the blocking error.
	empty := &streamingStub{blockingStub: blockingStub{err: wantErr}}
	if _, err := GenerateWithFallback(context.Background(), empty, "p"); err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
