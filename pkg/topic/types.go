package topic

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Item types stored in a topic's context.
const (
	TypeFact     = "fact"
	TypeDecision = "decision"
	TypeRisk     = "risk"
	TypeTask     = "task"
	TypeNote     = "note"
)

// Action types and severities produced by the orchestrator.
const (
	ActionNotify   = "notify"
	ActionAsk      = "ask"
	ActionEscalate = "escalate"

	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// TargetAll addresses an action to every member of a topic.
const TargetAll = "all"

// Member is a user registered on a topic, with the responsibilities used
// for relevance matching.
type Member struct {
	UserID           string   `json:"user_id"`
	DisplayName      string   `json:"display_name,omitempty"`
	Role             string   `json:"role,omitempty"`
	Responsibilities []string `json:"responsibilities"`
}

// ContextItem is one normalized unit of topic memory. Immutable once created.
type ContextItem struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Text      string            `json:"text"`
	Actors    []string          `json:"actors"`
	Tags      []string          `json:"tags"`
	Source    string            `json:"source,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// ContextDelta is one raw fact/decision/risk/note entry before normalization.
type ContextDelta struct {
	Text   string   `json:"text"`
	Actors []string `json:"actors"`
	Tags   []string `json:"tags"`
}

// TaskDelta is one raw task entry before normalization.
type TaskDelta struct {
	Title         string   `json:"title"`
	Owner         string   `json:"owner,omitempty"`
	Due           string   `json:"due,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Tags          []string `json:"tags"`
	RelatedActors []string `json:"related_actors"`
}

// MeetingDelta is one meeting's change set against a topic.
type MeetingDelta struct {
	MeetingID string         `json:"meeting_id,omitempty"`
	Summary   string         `json:"summary,omitempty"`
	Facts     []ContextDelta `json:"facts"`
	Decisions []ContextDelta `json:"decisions"`
	Risks     []ContextDelta `json:"risks"`
	Tasks     []TaskDelta    `json:"tasks"`
	Notes     []ContextDelta `json:"notes"`
}

// State is the full evolving memory of one topic.
type State struct {
	TopicID     string        `json:"topic_id"`
	Title       string        `json:"title"`
	Goal        string        `json:"goal,omitempty"`
	Members     []Member      `json:"members"`
	Context     []ContextItem `json:"context"`
	RecentNotes []string      `json:"recent_notes"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Member returns the registered member with the given user id, or nil.
func (s *State) Member(userID string) *Member {
	for i := range s.Members {
		if s.Members[i].UserID == userID {
			return &s.Members[i]
		}
	}
	return nil
}

// MemberIDs returns the user ids of all registered members, in roster order.
func (s *State) MemberIDs() []string {
	ids := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// MembersWithRole returns the user ids of members whose role matches any of
// the given roles, case-insensitively.
func (s *State) MembersWithRole(roles ...string) []string {
	normalized := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		normalized[strings.ToLower(r)] = struct{}{}
	}
	var users []string
	for _, m := range s.Members {
		if _, ok := normalized[strings.ToLower(m.Role)]; ok {
			users = append(users, m.UserID)
		}
	}
	return users
}

// PersonalizedView is the per-user projection of a topic's context.
// Derived on demand, never persisted.
type PersonalizedView struct {
	TopicID     string   `json:"topic_id"`
	UserID      string   `json:"user_id"`
	Highlights  []string `json:"highlights"`
	ActionItems []string `json:"action_items"`
	Risks       []string `json:"risks"`
	Decisions   []string `json:"decisions"`
	Mentions    []string `json:"mentions"`
}

// NotificationAction is one action the orchestrator wants to trigger.
type NotificationAction struct {
	ActionType string   `json:"action_type"`
	TargetUser string   `json:"target_user,omitempty"`
	Message    string   `json:"message"`
	Severity   string   `json:"severity"`
	Tags       []string `json:"tags"`
}

// ProcessResult is the wire contract for processing one delta.
type ProcessResult struct {
	Topic   *State               `json:"topic"`
	Actions []NotificationAction `json:"actions"`
}

// NewState creates a fresh topic. An empty topicID gets a generated one.
func NewState(topicID, title, goal string, members []Member) *State {
	if topicID == "" {
		topicID = uuid.NewString()
	}
	if members == nil {
		members = []Member{}
	}
	return &State{
		TopicID:     topicID,
		Title:       title,
		Goal:        goal,
		Members:     members,
		Context:     []ContextItem{},
		RecentNotes: []string{},
		CreatedAt:   time.Now().UTC(),
	}
}

// Clone returns a deep copy so readers never observe a torn State while a
// writer mutates the original under the topic lock.
func (s *State) Clone() *State {
	cp := *s
	cp.Members = append([]Member(nil), s.Members...)
	cp.Context = append([]ContextItem(nil), s.Context...)
	cp.RecentNotes = append([]string(nil), s.RecentNotes...)
	return &cp
}
