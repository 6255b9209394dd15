package service

import (
	"context"
	"time"

	"topic-memory-be/internal/pkg/logger"
	"topic-memory-be/internal/pkg/serverutils"
	"topic-memory-be/internal/repository/memory"
	"topic-memory-be/internal/repository/unitofwork"
	"topic-memory-be/pkg/ai"
	"topic-memory-be/pkg/ai/prompt"
	"topic-memory-be/pkg/llm"
	"topic-memory-be/pkg/topic"
)

type ITopicService interface {
	CreateTopic(ctx context.Context, topicID, title, goal string, members []topic.Member) (*topic.State, error)
	GetTopic(ctx context.Context, topicID string) (*topic.State, error)
	ListTopics(ctx context.Context) ([]*topic.State, error)
	IngestDelta(ctx context.Context, topicID string, delta *topic.MeetingDelta) (*topic.State, error)
	BuildPersonalView(ctx context.Context, topicID, userID string) (*topic.PersonalizedView, error)
	GenerateDeltaFromTranscript(ctx context.Context, topicID, transcript, meetingID string) (*topic.MeetingDelta, error)
	Reset(ctx context.Context) error
}

type topicService struct {
	topics     *memory.TopicRepository
	uowFactory unitofwork.RepositoryFactory
	llmClient  llm.Provider
	llmTimeout time.Duration
	viewCache  *ViewCache
	logger     logger.ILogger
}

// NewTopicService builds the memory-layer service. uowFactory, llmClient and
// viewCache may be nil: the service then runs memory-only, with transcript
// extraction disabled and views rebuilt on every read.
func NewTopicService(
	topics *memory.TopicRepository,
	uowFactory unitofwork.RepositoryFactory,
	llmClient llm.Provider,
	llmTimeout time.Duration,
	viewCache *ViewCache,
	log logger.ILogger,
) ITopicService {
	return &topicService{
		topics:     topics,
		uowFactory: uowFactory,
		llmClient:  llmClient,
		llmTimeout: llmTimeout,
		viewCache:  viewCache,
		logger:     log,
	}
}

func (s *topicService) CreateTopic(ctx context.Context, topicID, title, goal string, members []topic.Member) (*topic.State, error) {
	state := topic.NewState(topicID, title, goal, members)
	s.topics.Upsert(state)
	return state.Clone(), nil
}

func (s *topicService) GetTopic(ctx context.Context, topicID string) (*topic.State, error) {
	state, ok := s.topics.Get(topicID)
	if !ok {
		return nil, serverutils.NewNotFoundError("Topic %s not found", topicID)
	}
	return state, nil
}

func (s *topicService) ListTopics(ctx context.Context) ([]*topic.State, error) {
	return s.topics.List(), nil
}

// IngestDelta normalizes one meeting delta into the topic context. The
// read-modify-write runs under the per-topic lock; the durable log write
// happens after the lock is released and must not fail the request.
func (s *topicService) IngestDelta(ctx context.Context, topicID string, delta *topic.MeetingDelta) (*topic.State, error) {
	items := topic.Normalize(delta)

	var snapshot *topic.State
	err := s.topics.Locked(topicID, func(state *topic.State) (*topic.State, error) {
		if state == nil {
			return nil, serverutils.NewNotFoundError("Topic %s not found", topicID)
		}
		state.Apply(delta, items)
		snapshot = state.Clone()
		return state, nil
	})
	if err != nil {
		return nil, err
	}

	s.appendToDurableLog(ctx, topicID, items)

	if s.viewCache != nil {
		s.viewCache.Invalidate(ctx, topicID)
	}

	return snapshot, nil
}

func (s *topicService) BuildPersonalView(ctx context.Context, topicID, userID string) (*topic.PersonalizedView, error) {
	if s.viewCache != nil {
		if view, ok := s.viewCache.Get(ctx, topicID, userID); ok {
			return view, nil
		}
	}

	state, err := s.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	view := topic.BuildView(state, userID)

	if s.viewCache != nil {
		s.viewCache.Set(ctx, view)
	}
	return view, nil
}

// GenerateDeltaFromTranscript asks the model to condense a raw transcript
// into a structured delta. Unlike action generation this has no fallback
// tier: a bad extraction is a client-visible error.
func (s *topicService) GenerateDeltaFromTranscript(ctx context.Context, topicID, transcript, meetingID string) (*topic.MeetingDelta, error) {
	state, err := s.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if s.llmClient == nil {
		return nil, serverutils.NewValidationError("transcript extraction requires a configured LLM provider")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	content, err := llm.GenerateWithFallback(callCtx, s.llmClient, prompt.NewDeltaBuilder(state, transcript).Build(), llm.WithTemperature(0.2))
	if err != nil {
		return nil, serverutils.NewValidationError("LLM delta extraction failed: %v", err)
	}

	var delta topic.MeetingDelta
	if err := ai.ExtractInto(content, &delta); err != nil {
		return nil, serverutils.NewValidationError("LLM delta extraction failed: %v", err)
	}
	delta.MeetingID = meetingID
	return &delta, nil
}

func (s *topicService) Reset(ctx context.Context) error {
	s.topics.Clear()
	if s.uowFactory != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.MemoryLogRepository().ClearAll(ctx); err != nil {
			s.logger.Warn("TopicService", "Failed to clear durable memory log", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *topicService) appendToDurableLog(ctx context.Context, topicID string, items []topic.ContextItem) {
	if s.uowFactory == nil || len(items) == 0 {
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MemoryLogRepository().Append(ctx, topicID, items); err != nil {
		// Persistence is best-effort; the in-memory update already happened.
		s.logger.Warn("TopicService", "Durable log append failed", map[string]interface{}{
			"topic_id": topicID,
			"count":    len(items),
			"error":    err.Error(),
		})
	}
}
