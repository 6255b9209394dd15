package topic

import "strings"

// IsRelevant decides whether a context item matters to the given user.
// An item is relevant when the user appears in its actors, owns the task
// behind it, or any of the member's responsibilities occurs in its text
// (case-insensitive substring). The member may be nil for users not
// registered on the topic; only the first two rules apply then.
func IsRelevant(item *ContextItem, userID string, member *Member) bool {
	for _, actor := range item.Actors {
		if actor == userID {
			return true
		}
	}
	if item.Meta["owner"] == userID {
		return true
	}
	if member != nil {
		textLower := strings.ToLower(item.Text)
		for _, resp := range member.Responsibilities {
			if resp != "" && strings.Contains(textLower, strings.ToLower(resp)) {
				return true
			}
		}
	}
	return false
}
