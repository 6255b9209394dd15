package heuristic

import (
	"testing"

	"topic-memory-be/pkg/topic"
)

func TestExtractActions(t *testing.T) {
	transcript := `Attendees: alice, bob, carol
参会人员：alice, bob
alice: please review the migration plan
bob: deploy is scheduled for friday
note for ALL: standup moves to 10am
alice@example.com：检查数据库备份
no separator line mentioning alice
alice:
`

	actions := ExtractActions(transcript, "alice@example.com")

	want := []string{
		"please review the migration plan",
		"standup moves to 10am",
		"检查数据库备份",
	}
	if len(actions) != len(want) {
		t.Fatalf("got %d actions, want %d: %+v", len(actions), len(want), actions)
	}
	for i, action := range actions {
		if action.Message != want[i] {
			t.Errorf("action %d message = %q, want %q", i, action.Message, want[i])
		}
		if action.TargetUser != "alice@example.com" {
			t.Errorf("action %d target = %q", i, action.TargetUser)
		}
		if action.ActionType != topic.ActionNotify || action.Severity != topic.SeverityInfo {
			t.Errorf("action %d type/severity = %q/%q", i, action.ActionType, action.Severity)
		}
		if len(action.Tags) != 1 || action.Tags[0] != "heuristic" {
			t.Errorf("action %d tags = %v", i, action.Tags)
		}
	}
}

func TestExtractActionsSkipsOtherUsers(t *testing.T) {
	actions := ExtractActions("bob: deploy on friday", "alice")
	if len(actions) != 0 {
		t.Errorf("expected no actions, got %+v", actions)
	}
}

func TestExtractActionsFullWidthColonOnly(t *testing.T) {
	actions := ExtractActions("alice：准备发布说明", "alice")
	if len(actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(actions))
	}
	if actions[0].Message != "准备发布说明" {
		t.Errorf("message = %q", actions[0].Message)
	}
}

func TestExtractActionsEmptyInput(t *testing.T) {
	if actions := ExtractActions("", "alice"); len(actions) != 0 {
		t.Errorf("expected no actions from empty text, got %+v", actions)
	}
}
