package contract

import (
	"context"
	"time"

	"topic-memory-be/internal/entity"
)

// ContextRepository stores raw imported context entries per topic.
type ContextRepository interface {
	Add(ctx context.Context, entry *entity.ContextEntry) error
	ListRecent(ctx context.Context, topicID string, limit int) ([]entity.ContextEntry, error)
	ListInRange(ctx context.Context, topicID string, start, end time.Time) ([]entity.ContextEntry, error)
	ClearAll(ctx context.Context) error
}
