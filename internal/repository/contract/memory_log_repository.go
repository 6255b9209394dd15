package contract

import (
	"context"
	"time"

	"topic-memory-be/pkg/topic"
)

// MemoryLogRepository is the durable append-only log of normalized context
// items, separate from the in-process topic state.
type MemoryLogRepository interface {
	Append(ctx context.Context, topicID string, items []topic.ContextItem) error
	ListInRange(ctx context.Context, topicID string, start, end time.Time) ([]topic.ContextItem, error)
	ListRecent(ctx context.Context, topicID string, limit int) ([]topic.ContextItem, error)
	ClearAll(ctx context.Context) error
}
