package topic

import "testing"

func TestIsRelevant(t *testing.T) {
	member := &Member{
		UserID:           "alice",
		Role:             "pm",
		Responsibilities: []string{"Database", "migrations"},
	}

	tests := []struct {
		name   string
		item   ContextItem
		userID string
		member *Member
		want   bool
	}{
		{
			name:   "actor match",
			item:   ContextItem{Type: TypeDecision, Text: "ship it", Actors: []string{"bob", "alice"}},
			userID: "alice",
			member: member,
			want:   true,
		},
		{
			name:   "task owner match via meta",
			item:   ContextItem{Type: TypeTask, Text: "Write runbook", Meta: map[string]string{"owner": "alice"}},
			userID: "alice",
			member: member,
			want:   true,
		},
		{
			name:   "responsibility substring, case-insensitive",
			item:   ContextItem{Type: TypeRisk, Text: "DB MIGRATIONS might slip"},
			userID: "alice",
			member: member,
			want:   true,
		},
		{
			name:   "no match",
			item:   ContextItem{Type: TypeFact, Text: "frontend redesign approved", Actors: []string{"bob"}},
			userID: "alice",
			member: member,
			want:   false,
		},
		{
			name:   "unregistered user matches on actors only",
			item:   ContextItem{Type: TypeFact, Text: "database rework", Actors: []string{"eve"}},
			userID: "eve",
			member: nil,
			want:   true,
		},
		{
			name:   "unregistered user gets no responsibility matching",
			item:   ContextItem{Type: TypeFact, Text: "database rework"},
			userID: "eve",
			member: nil,
			want:   false,
		},
		{
			name:   "empty responsibility never matches",
			item:   ContextItem{Type: TypeFact, Text: "anything at all"},
			userID: "alice",
			member: &Member{UserID: "alice", Responsibilities: []string{""}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRelevant(&tt.item, tt.userID, tt.member); got != tt.want {
				t.Errorf("IsRelevant() = %v, want %v", got, tt.want)
			}
		})
	}
}
