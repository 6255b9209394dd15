package implementation

import (
	"context"
	"time"

	"topic-memory-be/internal/entity"
	"topic-memory-be/internal/repository/contract"

	"gorm.io/gorm"
)

type ContextRepositoryImpl struct {
	db *gorm.DB
}

func NewContextRepository(db *gorm.DB) contract.ContextRepository {
	return &ContextRepositoryImpl{db: db}
}

func (r *ContextRepositoryImpl) Add(ctx context.Context, entry *entity.ContextEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ContextRepositoryImpl) ListRecent(ctx context.Context, topicID string, limit int) ([]entity.ContextEntry, error) {
	var rows []entity.ContextEntry
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *ContextRepositoryImpl) ListInRange(ctx context.Context, topicID string, start, end time.Time) ([]entity.ContextEntry, error) {
	var rows []entity.ContextEntry
	err := r.db.WithContext(ctx).
		Where("topic_id = ? AND created_at >= ? AND created_at <= ?", topicID, start, end).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ContextRepositoryImpl) ClearAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&entity.ContextEntry{}).Error
}
