package service

import (
	"context"
	"testing"
	"time"

	"topic-memory-be/internal/pkg/logger"
	"topic-memory-be/internal/pkg/serverutils"
	"topic-memory-be/internal/repository/memory"
	"topic-memory-be/pkg/llm"
	"topic-memory-be/pkg/topic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTopicFixture(t *testing.T, provider llm.Provider) ITopicService {
	t.Helper()
	return NewTopicService(memory.NewTopicRepository(), nil, provider, time.Second, nil, logger.NoopLogger{})
}

func TestCreateAndGetTopic(t *testing.T) {
	svc := newTopicFixture(t, nil)

	created, err := svc.CreateTopic(context.Background(), "", "Launch", "ship v1", nil)
	require.NoError(t, err)
	require.NotEmpty(t, created.TopicID)

	got, err := svc.GetTopic(context.Background(), created.TopicID)
	require.NoError(t, err)
	assert.Equal(t, "Launch", got.Title)
}

func TestGetTopicNotFound(t *testing.T) {
	svc := newTopicFixture(t, nil)
	_, err := svc.GetTopic(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, serverutils.IsNotFound(err))
}

func TestIngestDeltaUpdatesStateAndSummary(t *testing.T) {
	svc := newTopicFixture(t, nil)
	_, err := svc.CreateTopic(context.Background(), "t-1", "Launch", "", nil)
	require.NoError(t, err)

	state, err := svc.IngestDelta(context.Background(), "t-1", &topic.MeetingDelta{
		MeetingID: "m-1",
		Summary:   "kickoff recap",
		Facts:     []topic.ContextDelta{{Text: "API freeze friday"}},
	})
	require.NoError(t, err)

	require.Len(t, state.Context, 1)
	assert.Equal(t, "m-1", state.Context[0].Source)
	require.Len(t, state.RecentNotes, 1)
	assert.Equal(t, "kickoff recap", state.RecentNotes[0])
}

func TestIngestDeltaUnknownTopic(t *testing.T) {
	svc := newTopicFixture(t, nil)
	_, err := svc.IngestDelta(context.Background(), "missing", &topic.MeetingDelta{})
	require.Error(t, err)
	assert.True(t, serverutils.IsNotFound(err))
}

func TestListTopicsSorted(t *testing.T) {
	svc := newTopicFixture(t, nil)
	_, err := svc.CreateTopic(context.Background(), "t-b", "Beta", "", nil)
	require.NoError(t, err)
	_, err = svc.CreateTopic(context.Background(), "t-a", "Alpha", "", nil)
	require.NoError(t, err)

	topics, err := svc.ListTopics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Alpha", topics[0].Title)
}

func TestGenerateDeltaFromTranscript(t *testing.T) {
	provider := &stubProvider{
		response: "Sure! ```json\n{\"summary\": \"standup\", \"tasks\": [{\"title\": \"Fix login\", \"owner\": \"bob\"}]}\n```",
	}
	svc := newTopicFixture(t, provider)
	_, err := svc.CreateTopic(context.Background(), "t-1", "Launch", "", nil)
	require.NoError(t, err)

	delta, err := svc.GenerateDeltaFromTranscript(context.Background(), "t-1", "bob: fix the login flow", "m-9")
	require.NoError(t, err)

	assert.Equal(t, "m-9", delta.MeetingID)
	assert.Equal(t, "standup", delta.Summary)
	require.Len(t, delta.Tasks, 1)
	assert.Equal(t, "bob", delta.Tasks[0].Owner)
}

func TestGenerateDeltaWithoutProvider(t *testing.T) {
	svc := newTopicFixture(t, nil)
	_, err := svc.CreateTopic(context.Background(), "t-1", "Launch", "", nil)
	require.NoError(t, err)

	_, err = svc.GenerateDeltaFromTranscript(context.Background(), "t-1", "anything", "m-1")
	require.Error(t, err)
	assert.False(t, serverutils.IsNotFound(err))
}

func TestReset(t *testing.T) {
	svc := newTopicFixture(t, nil)
	_, err := svc.CreateTopic(context.Background(), "t-1", "Launch", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(context.Background()))

	topics, err := svc.ListTopics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, topics)
}
