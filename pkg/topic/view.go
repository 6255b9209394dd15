package topic

import (
	"fmt"
	"strings"
)

// View bounds.
const (
	maxHighlights  = 8
	maxSideChannel = 5
	maxMentions    = 10

	// Non-relevant items are promoted into highlights only while fewer
	// than this many highlights exist, so general topic activity still
	// surfaces for users nothing is addressed to.
	maxGeneralHighlights = 3
)

// BuildView projects a topic's context onto one user. The context is walked
// most-recent-first and the walk stops as soon as the highlight list is
// full. NOTE: that cutoff also stops the scan for relevant items further
// back in history; intentional, kept for parity with existing clients.
func BuildView(state *State, userID string) *PersonalizedView {
	member := state.Member(userID)

	highlights := []string{}
	actionItems := []string{}
	risks := []string{}
	decisions := []string{}
	mentions := []string{}

	for i := len(state.Context) - 1; i >= 0; i-- {
		if len(highlights) >= maxHighlights {
			break
		}
		item := &state.Context[i]
		relevant := IsRelevant(item, userID, member)
		formatted := FormatItem(item)

		if !relevant && len(highlights) < maxGeneralHighlights {
			highlights = append(highlights, formatted)
		}
		if relevant {
			mentions = append(mentions, formatted)
			switch item.Type {
			case TypeTask:
				actionItems = append(actionItems, formatted)
			case TypeRisk:
				risks = append(risks, formatted)
			case TypeDecision:
				decisions = append(decisions, formatted)
			case TypeFact, TypeNote:
				if !contains(highlights, formatted) {
					highlights = append(highlights, formatted)
				}
			}
		}
	}

	return &PersonalizedView{
		TopicID:     state.TopicID,
		UserID:      userID,
		Highlights:  truncate(highlights, maxHighlights),
		ActionItems: truncate(actionItems, maxSideChannel),
		Risks:       truncate(risks, maxSideChannel),
		Decisions:   truncate(decisions, maxSideChannel),
		Mentions:    truncate(mentions, maxMentions),
	}
}

// FormatItem renders one context item for display lists, e.g.
// "RISK: DB migration risk [source=m-12]".
func FormatItem(item *ContextItem) string {
	formatted := fmt.Sprintf("%s: %s", strings.ToUpper(item.Type), item.Text)
	if item.Source != "" {
		formatted += fmt.Sprintf(" [source=%s]", item.Source)
	}
	return formatted
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func truncate(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
