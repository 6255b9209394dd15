package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"topic-memory-be/pkg/topic"

	"github.com/redis/go-redis/v9"
)

const viewCacheTTL = 60 * time.Second

// ViewCache keeps recently built personalized views in Redis. Every cache
// path is best-effort: a dead Redis only costs the rebuild. Keys embed a
// per-topic version that ingestion bumps, so stale views age out without
// pattern deletes.
type ViewCache struct {
	rdb *redis.Client
}

func NewViewCache(rdb *redis.Client) *ViewCache {
	return &ViewCache{rdb: rdb}
}

func (c *ViewCache) Get(ctx context.Context, topicID, userID string) (*topic.PersonalizedView, bool) {
	data, err := c.rdb.Get(ctx, c.key(ctx, topicID, userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var view topic.PersonalizedView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, false
	}
	return &view, true
}

func (c *ViewCache) Set(ctx context.Context, view *topic.PersonalizedView) {
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(ctx, view.TopicID, view.UserID), data, viewCacheTTL)
}

func (c *ViewCache) Invalidate(ctx context.Context, topicID string) {
	c.rdb.Incr(ctx, "topicmem:viewver:"+topicID)
}

func (c *ViewCache) key(ctx context.Context, topicID, userID string) string {
	version, _ := c.rdb.Get(ctx, "topicmem:viewver:"+topicID).Int64()
	return fmt.Sprintf("topicmem:view:%s:%d:%s", topicID, version, userID)
}
