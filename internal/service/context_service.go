package service

import (
	"context"
	"encoding/json"
	"time"

	"topic-memory-be/internal/dto"
	"topic-memory-be/internal/entity"
	"topic-memory-be/internal/pkg/logger"
	"topic-memory-be/internal/pkg/serverutils"
	"topic-memory-be/internal/repository/unitofwork"
	"topic-memory-be/pkg/assets"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IContextService interface {
	AddContext(ctx context.Context, topicID string, req *dto.ContextCreateRequest) (*dto.ContextEntryResponse, error)
	ListContext(ctx context.Context, topicID string, limit int) ([]*dto.ContextEntryResponse, error)
	ImportAssets(ctx context.Context, topicID, date, author string) ([]*dto.ContextEntryResponse, error)
	ListAssets(ctx context.Context, date string) ([]assets.Asset, error)
	Reset(ctx context.Context) error
}

// contextService manages the raw imported context store: entries added by
// external tools plus bulk imports from asset transcripts.
type contextService struct {
	topicService ITopicService
	uowFactory   unitofwork.RepositoryFactory
	loader       *assets.Loader
	logger       logger.ILogger
}

func NewContextService(
	topicService ITopicService,
	uowFactory unitofwork.RepositoryFactory,
	loader *assets.Loader,
	log logger.ILogger,
) IContextService {
	return &contextService{
		topicService: topicService,
		uowFactory:   uowFactory,
		loader:       loader,
		logger:       log,
	}
}

func (s *contextService) AddContext(ctx context.Context, topicID string, req *dto.ContextCreateRequest) (*dto.ContextEntryResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if _, err := s.topicService.GetTopic(ctx, topicID); err != nil {
		return nil, err
	}

	tags, _ := json.Marshal(req.Tags)
	entry := entity.ContextEntry{
		Id:        uuid.NewString(),
		TopicId:   topicID,
		Author:    req.Author,
		Text:      req.Text,
		Tags:      datatypes.JSON(tags),
		Source:    req.Source,
		CreatedAt: time.Now().UTC(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ContextRepository().Add(ctx, &entry); err != nil {
		return nil, err
	}
	return toContextResponse(&entry), nil
}

func (s *contextService) ListContext(ctx context.Context, topicID string, limit int) ([]*dto.ContextEntryResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if _, err := s.topicService.GetTopic(ctx, topicID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ContextRepository().ListRecent(ctx, topicID, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.ContextEntryResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, toContextResponse(&rows[i]))
	}
	return responses, nil
}

// ImportAssets files every transcript for the date as one context entry.
func (s *contextService) ImportAssets(ctx context.Context, topicID, date, author string) ([]*dto.ContextEntryResponse, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if _, err := s.topicService.GetTopic(ctx, topicID); err != nil {
		return nil, err
	}
	if author == "" {
		author = "system"
	}

	docs, err := s.loader.ListByDate(date)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	responses := make([]*dto.ContextEntryResponse, 0, len(docs))
	for _, doc := range docs {
		tags, _ := json.Marshal([]string{"asset"})
		entry := entity.ContextEntry{
			Id:        uuid.NewString(),
			TopicId:   topicID,
			Author:    author,
			Text:      doc.Content,
			Tags:      datatypes.JSON(tags),
			Source:    doc.Name,
			CreatedAt: time.Now().UTC(),
		}
		if err := uow.ContextRepository().Add(ctx, &entry); err != nil {
			return nil, err
		}
		responses = append(responses, toContextResponse(&entry))
	}
	return responses, nil
}

func (s *contextService) ListAssets(ctx context.Context, date string) ([]assets.Asset, error) {
	return s.loader.ListUpTo(date)
}

func (s *contextService) Reset(ctx context.Context) error {
	if s.uowFactory == nil {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ContextRepository().ClearAll(ctx)
}

// requireStore rejects context operations when no database is configured.
func (s *contextService) requireStore() error {
	if s.uowFactory == nil {
		return serverutils.NewValidationError("context store requires a configured database")
	}
	return nil
}

func toContextResponse(entry *entity.ContextEntry) *dto.ContextEntryResponse {
	resp := &dto.ContextEntryResponse{
		Id:        entry.Id,
		TopicId:   entry.TopicId,
		Author:    entry.Author,
		Text:      entry.Text,
		Source:    entry.Source,
		CreatedAt: entry.CreatedAt,
	}
	_ = json.Unmarshal(entry.Tags, &resp.Tags)
	return resp
}
