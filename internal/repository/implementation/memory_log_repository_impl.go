package implementation

import (
	"context"
	"encoding/json"
	"time"

	"topic-memory-be/internal/entity"
	"topic-memory-be/internal/repository/contract"
	"topic-memory-be/pkg/topic"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MemoryLogRepositoryImpl struct {
	db *gorm.DB
}

func NewMemoryLogRepository(db *gorm.DB) contract.MemoryLogRepository {
	return &MemoryLogRepositoryImpl{db: db}
}

func (r *MemoryLogRepositoryImpl) Append(ctx context.Context, topicID string, items []topic.ContextItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]entity.MemoryEntry, 0, len(items))
	for _, item := range items {
		rows = append(rows, toMemoryEntry(topicID, &item))
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *MemoryLogRepositoryImpl) ListInRange(ctx context.Context, topicID string, start, end time.Time) ([]topic.ContextItem, error) {
	var rows []entity.MemoryEntry
	err := r.db.WithContext(ctx).
		Where("topic_id = ? AND created_at >= ? AND created_at <= ?", topicID, start, end).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toContextItems(rows), nil
}

func (r *MemoryLogRepositoryImpl) ListRecent(ctx context.Context, topicID string, limit int) ([]topic.ContextItem, error) {
	var rows []entity.MemoryEntry
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toContextItems(rows), nil
}

func (r *MemoryLogRepositoryImpl) ClearAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&entity.MemoryEntry{}).Error
}

func toMemoryEntry(topicID string, item *topic.ContextItem) entity.MemoryEntry {
	actors, _ := json.Marshal(item.Actors)
	tags, _ := json.Marshal(item.Tags)
	meta, _ := json.Marshal(item.Meta)
	return entity.MemoryEntry{
		Id:        item.ID,
		TopicId:   topicID,
		Type:      item.Type,
		Text:      item.Text,
		Actors:    datatypes.JSON(actors),
		Tags:      datatypes.JSON(tags),
		Source:    item.Source,
		Meta:      datatypes.JSON(meta),
		CreatedAt: item.CreatedAt,
	}
}

func toContextItems(rows []entity.MemoryEntry) []topic.ContextItem {
	items := make([]topic.ContextItem, 0, len(rows))
	for _, row := range rows {
		item := topic.ContextItem{
			ID:        row.Id,
			Type:      row.Type,
			Text:      row.Text,
			Source:    row.Source,
			CreatedAt: row.CreatedAt,
		}
		_ = json.Unmarshal(row.Actors, &item.Actors)
		_ = json.Unmarshal(row.Tags, &item.Tags)
		_ = json.Unmarshal(row.Meta, &item.Meta)
		items = append(items, item)
	}
	return items
}
