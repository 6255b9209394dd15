package topic

import (
	"fmt"
	"testing"
	"time"
)

func viewFixture(members []Member, items ...ContextItem) *State {
	state := NewState("t-1", "Launch", "", members)
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := range items {
		items[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if items[i].ID == "" {
			items[i].ID = fmt.Sprintf("item-%d", i)
		}
	}
	state.InsertContext(items)
	return state
}

func TestFormatItem(t *testing.T) {
	withSource := ContextItem{Type: TypeRisk, Text: "DB migration risk", Source: "m-12"}
	if got := FormatItem(&withSource); got != "RISK: DB migration risk [source=m-12]" {
		t.Errorf("FormatItem() = %q", got)
	}

	withoutSource := ContextItem{Type: TypeNote, Text: "sync moved"}
	if got := FormatItem(&withoutSource); got != "NOTE: sync moved" {
		t.Errorf("FormatItem() = %q", got)
	}
}

func TestBuildViewBuckets(t *testing.T) {
	members := []Member{{UserID: "alice", Responsibilities: []string{"database"}}}
	state := viewFixture(members,
		ContextItem{Type: TypeFact, Text: "database schema frozen"},
		ContextItem{Type: TypeTask, Text: "Migrate database", Meta: map[string]string{"owner": "alice"}},
		ContextItem{Type: TypeRisk, Text: "database rollback untested"},
		ContextItem{Type: TypeDecision, Text: "use pgbouncer for database", Actors: []string{"alice"}},
		ContextItem{Type: TypeNote, Text: "frontend demo friday"},
	)

	view := BuildView(state, "alice")

	if len(view.ActionItems) != 1 || view.ActionItems[0] != "TASK: Migrate database" {
		t.Errorf("action items = %v", view.ActionItems)
	}
	if len(view.Risks) != 1 || view.Risks[0] != "RISK: database rollback untested" {
		t.Errorf("risks = %v", view.Risks)
	}
	if len(view.Decisions) != 1 || view.Decisions[0] != "DECISION: use pgbouncer for database" {
		t.Errorf("decisions = %v", view.Decisions)
	}
	// Four items are relevant to alice; the frontend note is not.
	if len(view.Mentions) != 4 {
		t.Errorf("mentions = %v", view.Mentions)
	}
	// The non-relevant note is promoted (walked first, fewer than 3
	// highlights at that point) and the relevant fact lands in highlights.
	if !contains(view.Highlights, "NOTE: frontend demo friday") {
		t.Errorf("highlights missing general note: %v", view.Highlights)
	}
	if !contains(view.Highlights, "FACT: database schema frozen") {
		t.Errorf("highlights missing relevant fact: %v", view.Highlights)
	}
}

func TestBuildViewWalksMostRecentFirst(t *testing.T) {
	state := viewFixture(nil,
		ContextItem{Type: TypeNote, Text: "older"},
		ContextItem{Type: TypeNote, Text: "newer"},
	)

	view := BuildView(state, "nobody")
	if len(view.Highlights) != 2 || view.Highlights[0] != "NOTE: newer" {
		t.Errorf("highlights = %v, want newest first", view.Highlights)
	}
}

func TestBuildViewGeneralPromotionCap(t *testing.T) {
	items := make([]ContextItem, 6)
	for i := range items {
		items[i] = ContextItem{Type: TypeNote, Text: fmt.Sprintf("general note %d", i)}
	}
	state := viewFixture(nil, items...)

	view := BuildView(state, "outsider")
	if len(view.Highlights) != maxGeneralHighlights {
		t.Errorf("highlights = %v, want %d general promotions", view.Highlights, maxGeneralHighlights)
	}
	if len(view.Mentions) != 0 {
		t.Errorf("mentions = %v, want none", view.Mentions)
	}
}

func TestBuildViewStopsScanningOnceHighlightsFull(t *testing.T) {
	items := []ContextItem{
		// Oldest: a task owned by alice, buried behind a wall of facts.
		{Type: TypeTask, Text: "Buried task", Meta: map[string]string{"owner": "alice"}},
	}
	for i := 0; i < maxHighlights; i++ {
		items = append(items, ContextItem{
			Type:   TypeFact,
			Text:   fmt.Sprintf("fact %d", i),
			Actors: []string{"alice"},
		})
	}
	state := viewFixture([]Member{{UserID: "alice"}}, items...)

	view := BuildView(state, "alice")

	if len(view.Highlights) != maxHighlights {
		t.Fatalf("highlights = %d, want %d", len(view.Highlights), maxHighlights)
	}
	// The walk stops once highlights are full, so the buried task is never
	// reached even though it is relevant.
	if len(view.ActionItems) != 0 {
		t.Errorf("action items = %v, want none", view.ActionItems)
	}
}

func TestBuildViewDedupesRepeatedFacts(t *testing.T) {
	state := viewFixture([]Member{{UserID: "alice"}},
		ContextItem{Type: TypeFact, Text: "same fact", Actors: []string{"alice"}},
		ContextItem{Type: TypeFact, Text: "same fact", Actors: []string{"alice"}},
	)

	view := BuildView(state, "alice")
	if len(view.Highlights) != 1 {
		t.Errorf("highlights = %v, want deduped", view.Highlights)
	}
	if len(view.Mentions) != 2 {
		t.Errorf("mentions = %v, want both occurrences", view.Mentions)
	}
}

func TestBuildViewTruncatesSideChannels(t *testing.T) {
	var items []ContextItem
	for i := 0; i < 12; i++ {
		items = append(items, ContextItem{
			Type:   TypeRisk,
			Text:   fmt.Sprintf("risk %d", i),
			Actors: []string{"alice"},
		})
	}
	state := viewFixture([]Member{{UserID: "alice"}}, items...)

	view := BuildView(state, "alice")
	if len(view.Risks) != maxSideChannel {
		t.Errorf("risks = %d, want %d", len(view.Risks), maxSideChannel)
	}
	if len(view.Mentions) != maxMentions {
		t.Errorf("mentions = %d, want %d", len(view.Mentions), maxMentions)
	}
}
