package topic

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxRecentNotes bounds the rolling list of delta summaries on a topic.
const maxRecentNotes = 10

// Normalize converts one meeting delta into typed context items.
// Group order follows the delta layout: facts, decisions, risks, tasks, notes.
func Normalize(delta *MeetingDelta) []ContextItem {
	now := time.Now().UTC()
	items := make([]ContextItem, 0,
		len(delta.Facts)+len(delta.Decisions)+len(delta.Risks)+len(delta.Tasks)+len(delta.Notes))

	items = append(items, normalizeGroup(TypeFact, delta.Facts, delta.MeetingID, now)...)
	items = append(items, normalizeGroup(TypeDecision, delta.Decisions, delta.MeetingID, now)...)
	items = append(items, normalizeGroup(TypeRisk, delta.Risks, delta.MeetingID, now)...)
	items = append(items, normalizeTasks(delta.Tasks, delta.MeetingID, now)...)
	items = append(items, normalizeGroup(TypeNote, delta.Notes, delta.MeetingID, now)...)

	return items
}

func normalizeGroup(itemType string, deltas []ContextDelta, source string, now time.Time) []ContextItem {
	items := make([]ContextItem, 0, len(deltas))
	for _, d := range deltas {
		items = append(items, ContextItem{
			ID:        uuid.NewString(),
			Type:      itemType,
			Text:      strings.TrimSpace(d.Text),
			Actors:    orEmpty(d.Actors),
			Tags:      orEmpty(d.Tags),
			Source:    source,
			CreatedAt: now,
		})
	}
	return items
}

// orEmpty keeps omitted slices serializing as [] instead of null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func normalizeTasks(tasks []TaskDelta, source string, now time.Time) []ContextItem {
	items := make([]ContextItem, 0, len(tasks))
	for _, task := range tasks {
		meta := map[string]string{}
		if task.Owner != "" {
			meta["owner"] = task.Owner
		}
		if task.Due != "" {
			meta["due"] = task.Due
		}
		if task.Notes != "" {
			meta["notes"] = task.Notes
		}

		text := task.Title
		if task.Due != "" {
			text = text + " (due " + task.Due + ")"
		}
		if task.Notes != "" {
			text = text + " - " + task.Notes
		}

		actors := orEmpty(task.RelatedActors)
		if task.Owner != "" {
			actors = []string{task.Owner}
		}

		items = append(items, ContextItem{
			ID:        uuid.NewString(),
			Type:      TypeTask,
			Text:      strings.TrimSpace(text),
			Actors:    actors,
			Tags:      orEmpty(task.Tags),
			Source:    source,
			CreatedAt: now,
			Meta:      meta,
		})
	}
	return items
}

// Apply merges normalized items and the delta summary into the topic state.
// Context stays sorted ascending by creation time; the sort is stable so
// items sharing a timestamp keep insertion order.
func (s *State) Apply(delta *MeetingDelta, items []ContextItem) {
	if summary := strings.TrimSpace(delta.Summary); summary != "" {
		s.RecentNotes = append([]string{summary}, s.RecentNotes...)
		if len(s.RecentNotes) > maxRecentNotes {
			s.RecentNotes = s.RecentNotes[:maxRecentNotes]
		}
	}

	s.Context = append(s.Context, items...)
	sortContext(s.Context)
}

// InsertContext appends already-persisted items (e.g. bulk imports) and
// restores the ordering invariant.
func (s *State) InsertContext(items []ContextItem) {
	s.Context = append(s.Context, items...)
	sortContext(s.Context)
}

func sortContext(items []ContextItem) {
	// Contexts stay small enough that a re-sort after append is fine.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
