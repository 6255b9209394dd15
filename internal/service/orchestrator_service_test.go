package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"topic-memory-be/internal/pkg/logger"
	"topic-memory-be/internal/repository/memory"
	"topic-memory-be/pkg/llm"
	"topic-memory-be/pkg/topic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider returns a canned response or error for every call.
type stubProvider struct {
	response string
	err      error
	calls    int
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	return p.response, p.err
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.calls++
	return p.response, p.err
}

// capturePublisher records dispatched batches.
type capturePublisher struct {
	batches [][]topic.NotificationAction
}

func (p *capturePublisher) PublishActions(ctx context.Context, state *topic.State, actions []topic.NotificationAction) error {
	p.batches = append(p.batches, actions)
	return nil
}

func newOrchestratorFixture(t *testing.T, provider llm.Provider) (IOrchestratorService, ITopicService, *capturePublisher) {
	t.Helper()
	log := logger.NoopLogger{}
	topics := NewTopicService(memory.NewTopicRepository(), nil, provider, time.Second, nil, log)
	pub := &capturePublisher{}
	orch := NewOrchestratorService(topics, nil, provider, time.Second, nil, pub, log)
	return orch, topics, pub
}

func launchTopic(t *testing.T, topics ITopicService) *topic.State {
	t.Helper()
	state, err := topics.CreateTopic(context.Background(), "t-1", "Launch", "ship v1", []topic.Member{
		{UserID: "alice", Role: "pm", Responsibilities: []string{"database"}},
		{UserID: "bob", Role: "dev", Responsibilities: []string{"frontend"}},
	})
	require.NoError(t, err)
	return state
}

func TestProcessDeltaRiskFallbackTargetsLeads(t *testing.T) {
	// No provider configured: the reasoning tier is skipped entirely and the
	// rule-based delta fallback produces the actions.
	orch, topics, pub := newOrchestratorFixture(t, nil)
	launchTopic(t, topics)

	result, err := orch.ProcessDelta(context.Background(), "t-1", &topic.MeetingDelta{
		Risks: []topic.ContextDelta{{Text: "DB migration risk"}},
	})
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	action := result.Actions[0]
	assert.Equal(t, "alice", action.TargetUser)
	assert.Equal(t, "风险提醒: DB migration risk", action.Message)
	assert.Equal(t, topic.SeverityWarning, action.Severity)

	// The batch reaches the delivery bus.
	require.Len(t, pub.batches, 1)

	// The delta also landed in topic memory.
	state, err := topics.GetTopic(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, state.Context, 1)
	assert.Equal(t, topic.TypeRisk, state.Context[0].Type)
}

func TestProcessDeltaRiskFallsBackToAllMembers(t *testing.T) {
	orch, topics, _ := newOrchestratorFixture(t, nil)
	_, err := topics.CreateTopic(context.Background(), "t-2", "NoLeads", "", []topic.Member{
		{UserID: "carol", Role: "dev"},
		{UserID: "dave", Role: "dev"},
	})
	require.NoError(t, err)

	result, err := orch.ProcessDelta(context.Background(), "t-2", &topic.MeetingDelta{
		Risks: []topic.ContextDelta{{Text: "scope creep"}},
	})
	require.NoError(t, err)

	targets := []string{result.Actions[0].TargetUser, result.Actions[1].TargetUser}
	assert.ElementsMatch(t, []string{"carol", "dave"}, targets)
}

func TestProcessDeltaTaskAndDecisionFallback(t *testing.T) {
	orch, topics, _ := newOrchestratorFixture(t, nil)
	launchTopic(t, topics)

	result, err := orch.ProcessDelta(context.Background(), "t-1", &topic.MeetingDelta{
		MeetingID: "m-7",
		Tasks:     []topic.TaskDelta{{Title: "Write runbook", Owner: "bob", Due: "2026-09-01"}},
		Decisions: []topic.ContextDelta{{Text: "ship friday", Actors: []string{"alice"}}},
	})
	require.NoError(t, err)
	require.Len(t, result.Actions, 2)

	taskAction := result.Actions[0]
	assert.Equal(t, "bob", taskAction.TargetUser)
	assert.Equal(t, "新任务: Write runbook，截止 2026-09-01（来自会议 m-7）", taskAction.Message)
	assert.Equal(t, topic.SeverityInfo, taskAction.Severity)

	decisionAction := result.Actions[1]
	assert.Equal(t, "alice", decisionAction.TargetUser)
	assert.Equal(t, "决策更新: ship friday（会议 m-7）", decisionAction.Message)
}

func TestProcessDeltaReasoningWins(t *testing.T) {
	provider := &stubProvider{
		response: "```json\n[{\"action_type\": \"escalate\", \"target_user\": \"alice\", \"message\": \"call the DBA now\", \"severity\": \"critical\"}]\n```",
	}
	orch, topics, _ := newOrchestratorFixture(t, provider)
	launchTopic(t, topics)

	result, err := orch.ProcessDelta(context.Background(), "t-1", &topic.MeetingDelta{
		Risks: []topic.ContextDelta{{Text: "DB migration risk"}},
	})
	require.NoError(t, err)

	// The reasoning tier produced an action, so the rule fallback never ran.
	require.Len(t, result.Actions, 1)
	assert.Equal(t, topic.ActionEscalate, result.Actions[0].ActionType)
	assert.Equal(t, "call the DBA now", result.Actions[0].Message)
	assert.Equal(t, []string{}, result.Actions[0].Tags)
}

func TestProcessDeltaReasoningFailureFallsThrough(t *testing.T) {
	provider := &stubProvider{err: errors.New("model unavailable")}
	orch, topics, _ := newOrchestratorFixture(t, provider)
	launchTopic(t, topics)

	result, err := orch.ProcessDelta(context.Background(), "t-1", &topic.MeetingDelta{
		Risks: []topic.ContextDelta{{Text: "DB migration risk"}},
	})

	// A dead model is never a request failure.
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "风险提醒: DB migration risk", result.Actions[0].Message)
}

func TestProcessDeltaTaskFallbackAfterReasoningFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("timeout")}
	orch, topics, _ := newOrchestratorFixture(t, provider)
	launchTopic(t, topics)

	result, err := orch.ProcessDelta(context.Background(), "t-1", &topic.MeetingDelta{
		Tasks: []topic.TaskDelta{{Title: "Write runbook", Owner: "bob"}},
	})
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, topic.ActionNotify, result.Actions[0].ActionType)
	assert.Equal(t, "bob", result.Actions[0].TargetUser)
	assert.Equal(t, "新任务: Write runbook", result.Actions[0].Message)
}

func TestProcessDeltaUnparsableReasoningFallsThrough(t *testing.T) {
	provider := &stubProvider{response: "I am sorry, I cannot help with that."}
	orch, topics, _ := newOrchestratorFixture(t, provider)
	launchTopic(t, topics)

	result, err := orch.ProcessDelta(context.Background(), "t-1", &topic.MeetingDelta{
		Risks: []topic.ContextDelta{{Text: "DB migration risk"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "风险提醒: DB migration risk", result.Actions[0].Message)
}

func TestProcessDeltaEmptyDeltaYieldsNoActions(t *testing.T) {
	orch, topics, pub := newOrchestratorFixture(t, nil)
	launchTopic(t, topics)

	result, err := orch.ProcessDelta(context.Background(), "t-1", &topic.MeetingDelta{
		Facts: []topic.ContextDelta{{Text: "nothing actionable here"}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Actions)
	assert.Empty(t, pub.batches, "empty batches are not dispatched")
}

func TestProcessDeltaUnknownTopic(t *testing.T) {
	orch, _, _ := newOrchestratorFixture(t, nil)
	_, err := orch.ProcessDelta(context.Background(), "missing", &topic.MeetingDelta{})
	require.Error(t, err)
}

func TestGenerateActionsDefaultNotice(t *testing.T) {
	orch, topics, _ := newOrchestratorFixture(t, nil)
	launchTopic(t, topics)

	actions, err := orch.GenerateActions(context.Background(), "t-1", "alice", "")
	require.NoError(t, err)

	require.Len(t, actions, 1)
	assert.Equal(t, "已检查主题 Launch 的最新上下文，暂无需要立即处理的动作", actions[0].Message)
	assert.Equal(t, []string{"fallback"}, actions[0].Tags)
	assert.Equal(t, "alice", actions[0].TargetUser)
}

func TestGenerateActionsHeuristicTier(t *testing.T) {
	orch, topics, _ := newOrchestratorFixture(t, nil)
	launchTopic(t, topics)

	actions, err := orch.GenerateActions(context.Background(), "t-1", "alice", "alice: review the rollout checklist")
	require.NoError(t, err)

	require.Len(t, actions, 1)
	assert.Equal(t, "review the rollout checklist", actions[0].Message)
	assert.Equal(t, []string{"heuristic"}, actions[0].Tags)
}

func TestBuildPersonalViewEndToEnd(t *testing.T) {
	orch, topics, _ := newOrchestratorFixture(t, nil)
	launchTopic(t, topics)

	_, err := orch.ProcessDelta(context.Background(), "t-1", &topic.MeetingDelta{
		Summary: "migration review",
		Risks:   []topic.ContextDelta{{Text: "database rollback untested"}},
		Tasks:   []topic.TaskDelta{{Title: "Prepare rollback script", Owner: "alice"}},
	})
	require.NoError(t, err)

	view, err := topics.BuildPersonalView(context.Background(), "t-1", "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", view.UserID)
	require.Len(t, view.ActionItems, 1)
	assert.Equal(t, "TASK: Prepare rollback script", view.ActionItems[0])
	require.Len(t, view.Risks, 1)
	assert.Equal(t, "RISK: database rollback untested", view.Risks[0])
}
