package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"topic-memory-be/internal/pkg/logger"
	"topic-memory-be/internal/repository/unitofwork"
	"topic-memory-be/pkg/ai"
	"topic-memory-be/pkg/ai/heuristic"
	"topic-memory-be/pkg/ai/prompt"
	"topic-memory-be/pkg/assets"
	"topic-memory-be/pkg/llm"
	"topic-memory-be/pkg/topic"
)

type IOrchestratorService interface {
	ProcessDelta(ctx context.Context, topicID string, delta *topic.MeetingDelta) (*topic.ProcessResult, error)
	ProcessAssets(ctx context.Context, topicID, userID, date string) ([]topic.NotificationAction, error)
	GenerateActions(ctx context.Context, topicID, userID, extra string) ([]topic.NotificationAction, error)
}

type orchestratorService struct {
	topicService ITopicService
	uowFactory   unitofwork.RepositoryFactory
	llmClient    llm.Provider
	llmTimeout   time.Duration
	loader       *assets.Loader
	publisher    IPublisherService
	logger       logger.ILogger
}

// NewOrchestratorService wires the three-tier action pipeline. llmClient may
// be nil (reasoning disabled); uowFactory, loader and publisher may be nil
// in degraded/test setups.
func NewOrchestratorService(
	topicService ITopicService,
	uowFactory unitofwork.RepositoryFactory,
	llmClient llm.Provider,
	llmTimeout time.Duration,
	loader *assets.Loader,
	publisher IPublisherService,
	log logger.ILogger,
) IOrchestratorService {
	return &orchestratorService{
		topicService: topicService,
		uowFactory:   uowFactory,
		llmClient:    llmClient,
		llmTimeout:   llmTimeout,
		loader:       loader,
		publisher:    publisher,
		logger:       log,
	}
}

// ProcessDelta ingests one meeting delta and derives actions from it.
// Tier 1 is the reasoning call; when it yields nothing the rule-based delta
// fallback runs. An empty action list is a legitimate outcome here.
func (s *orchestratorService) ProcessDelta(ctx context.Context, topicID string, delta *topic.MeetingDelta) (*topic.ProcessResult, error) {
	state, err := s.topicService.IngestDelta(ctx, topicID, delta)
	if err != nil {
		return nil, err
	}

	actions := s.reasonedActions(ctx, state, delta, "")
	if len(actions) == 0 {
		actions = append(actions, s.taskActions(delta)...)
		actions = append(actions, s.riskActions(state, delta)...)
		actions = append(actions, s.decisionActions(state, delta)...)
	}

	s.dispatch(ctx, state, actions)
	return &topic.ProcessResult{Topic: state, Actions: actions}, nil
}

// ProcessAssets derives actions for one user from the transcripts filed
// under a date. Falls through reasoning → heuristic line scan → default
// notice, so the result is never empty.
func (s *orchestratorService) ProcessAssets(ctx context.Context, topicID, userID, date string) ([]topic.NotificationAction, error) {
	state, err := s.topicService.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	var docs []assets.Asset
	if s.loader != nil {
		if docs, err = s.loader.ListByDate(date); err != nil {
			s.logger.Warn("Orchestrator", "Asset listing failed", map[string]interface{}{"date": date, "error": err.Error()})
		}
	}

	var transcript strings.Builder
	titles := make([]string, 0, len(docs))
	for _, doc := range docs {
		titles = append(titles, doc.Name)
		transcript.WriteString(doc.Content)
		transcript.WriteString("\n")
	}

	actions := s.reasonedActions(ctx, state, nil, transcript.String())
	if len(actions) == 0 {
		actions = heuristic.ExtractActions(transcript.String(), userID)
	}
	if len(actions) == 0 {
		message := fmt.Sprintf("已处理 %s 的资料", date)
		if len(titles) > 0 {
			message += ": " + strings.Join(titles, ", ")
		}
		actions = []topic.NotificationAction{{
			ActionType: topic.ActionNotify,
			TargetUser: userID,
			Message:    message,
			Severity:   topic.SeverityInfo,
			Tags:       []string{"fallback"},
		}}
	}

	s.dispatch(ctx, state, actions)
	return actions, nil
}

// GenerateActions runs the pipeline on demand over recently imported
// context, without ingesting anything. Never returns an empty list.
func (s *orchestratorService) GenerateActions(ctx context.Context, topicID, userID, extra string) ([]topic.NotificationAction, error) {
	state, err := s.topicService.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	imported := s.importedContext(ctx, topicID)
	var raw strings.Builder
	for _, entry := range imported {
		raw.WriteString(entry.Text)
		raw.WriteString("\n")
	}
	if extra != "" {
		raw.WriteString(extra)
		raw.WriteString("\n")
	}

	actions := s.reasonedActions(ctx, state, nil, extra)
	if len(actions) == 0 {
		actions = heuristic.ExtractActions(raw.String(), userID)
	}
	if len(actions) == 0 {
		actions = []topic.NotificationAction{{
			ActionType: topic.ActionNotify,
			TargetUser: userID,
			Message:    fmt.Sprintf("已检查主题 %s 的最新上下文，暂无需要立即处理的动作", state.Title),
			Severity:   topic.SeverityInfo,
			Tags:       []string{"fallback"},
		}}
	}

	s.dispatch(ctx, state, actions)
	return actions, nil
}

// --- Tier 1: reasoning ---

type rawAction struct {
	ActionType string   `json:"action_type"`
	TargetUser string   `json:"target_user"`
	Message    string   `json:"message"`
	Severity   string   `json:"severity"`
	Tags       []string `json:"tags"`
}

// reasonedActions is the reasoning tier. Every failure mode (no provider,
// call error, timeout, unparsable output) collapses to an empty slice so
// the caller falls through to the next tier.
func (s *orchestratorService) reasonedActions(ctx context.Context, state *topic.State, delta *topic.MeetingDelta, extra string) []topic.NotificationAction {
	if s.llmClient == nil {
		return nil
	}

	builder := prompt.NewActionBuilder(state, delta).
		WithMemory(s.persistedMemory(ctx, state.TopicID)).
		WithImported(s.importedContext(ctx, state.TopicID)).
		WithExtra(extra)

	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	content, err := llm.GenerateWithFallback(callCtx, s.llmClient, builder.Build())
	if err != nil {
		s.logger.Warn("Orchestrator", "Reasoning call failed, falling through", map[string]interface{}{
			"topic_id": state.TopicID,
			"error":    err.Error(),
		})
		return nil
	}

	var parsed []rawAction
	if err := ai.ExtractInto(content, &parsed); err != nil {
		s.logger.Warn("Orchestrator", "Reasoning output unparsable, falling through", map[string]interface{}{
			"topic_id": state.TopicID,
			"error":    err.Error(),
		})
		return nil
	}

	actions := make([]topic.NotificationAction, 0, len(parsed))
	for _, item := range parsed {
		action := topic.NotificationAction{
			ActionType: item.ActionType,
			TargetUser: item.TargetUser,
			Message:    item.Message,
			Severity:   item.Severity,
			Tags:       item.Tags,
		}
		if action.ActionType == "" {
			action.ActionType = topic.ActionNotify
		}
		if action.Severity == "" {
			action.Severity = topic.SeverityInfo
		}
		if action.Tags == nil {
			action.Tags = []string{}
		}
		actions = append(actions, action)
	}
	return actions
}

func (s *orchestratorService) persistedMemory(ctx context.Context, topicID string) []topic.ContextItem {
	if s.uowFactory == nil {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.MemoryLogRepository().ListRecent(ctx, topicID, prompt.MaxMemoryItems)
	if err != nil {
		s.logger.Warn("Orchestrator", "Memory slice unavailable", map[string]interface{}{"topic_id": topicID, "error": err.Error()})
		return nil
	}
	return items
}

func (s *orchestratorService) importedContext(ctx context.Context, topicID string) []prompt.ImportedEntry {
	if s.uowFactory == nil {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ContextRepository().ListRecent(ctx, topicID, prompt.MaxContextSlice)
	if err != nil {
		s.logger.Warn("Orchestrator", "Imported context unavailable", map[string]interface{}{"topic_id": topicID, "error": err.Error()})
		return nil
	}
	entries := make([]prompt.ImportedEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, prompt.ImportedEntry{
			Text:      row.Text,
			Author:    row.Author,
			Source:    row.Source,
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
		})
	}
	return entries
}

// --- Rule-based delta fallback ---

func (s *orchestratorService) taskActions(delta *topic.MeetingDelta) []topic.NotificationAction {
	actions := make([]topic.NotificationAction, 0, len(delta.Tasks))
	for _, task := range delta.Tasks {
		message := "新任务: " + task.Title
		if task.Due != "" {
			message += "，截止 " + task.Due
		}
		if delta.MeetingID != "" {
			message += fmt.Sprintf("（来自会议 %s）", delta.MeetingID)
		}
		actions = append(actions, topic.NotificationAction{
			ActionType: topic.ActionNotify,
			TargetUser: task.Owner,
			Message:    message,
			Severity:   topic.SeverityInfo,
			Tags:       task.Tags,
		})
	}
	return actions
}

func (s *orchestratorService) riskActions(state *topic.State, delta *topic.MeetingDelta) []topic.NotificationAction {
	targets := state.MembersWithRole("pm", "owner", "admin")
	if len(targets) == 0 {
		targets = state.MemberIDs()
	}

	var actions []topic.NotificationAction
	for _, risk := range delta.Risks {
		message := risk.Text
		if delta.MeetingID != "" {
			message = fmt.Sprintf("%s（会议 %s）", message, delta.MeetingID)
		}
		for _, user := range targets {
			actions = append(actions, topic.NotificationAction{
				ActionType: topic.ActionNotify,
				TargetUser: user,
				Message:    "风险提醒: " + message,
				Severity:   topic.SeverityWarning,
				Tags:       risk.Tags,
			})
		}
	}
	return actions
}

func (s *orchestratorService) decisionActions(state *topic.State, delta *topic.MeetingDelta) []topic.NotificationAction {
	members := state.MemberIDs()

	var actions []topic.NotificationAction
	for _, decision := range delta.Decisions {
		targets := decision.Actors
		if len(targets) == 0 {
			targets = members
		}
		message := decision.Text
		if delta.MeetingID != "" {
			message = fmt.Sprintf("%s（会议 %s）", message, delta.MeetingID)
		}
		for _, user := range targets {
			actions = append(actions, topic.NotificationAction{
				ActionType: topic.ActionNotify,
				TargetUser: user,
				Message:    "决策更新: " + message,
				Severity:   topic.SeverityInfo,
				Tags:       decision.Tags,
			})
		}
	}
	return actions
}

// dispatch hands the batch to the delivery bus. Delivery is auxiliary; a
// dead bus never fails the request.
func (s *orchestratorService) dispatch(ctx context.Context, state *topic.State, actions []topic.NotificationAction) {
	if s.publisher == nil || len(actions) == 0 {
		return
	}
	if err := s.publisher.PublishActions(ctx, state, actions); err != nil {
		s.logger.Warn("Orchestrator", "Action dispatch failed", map[string]interface{}{
			"topic_id": state.TopicID,
			"error":    err.Error(),
		})
	}
}
