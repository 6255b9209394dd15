// Package heuristic derives notification actions from transcript-like text
// without any model call. It is the middle tier of the action pipeline:
// used when the model produced nothing usable, before falling back to a
// plain default notice.
package heuristic

import (
	"strings"

	"topic-memory-be/pkg/topic"
)

// CatchAllKeyword marks lines addressed to everyone.
const CatchAllKeyword = "all"

// attendee roster lines carry no actionable content.
var attendeeMarkers = []string{"attendee", "participant", "参会"}

// ExtractActions scans transcript text line by line and keeps colon-separated
// lines that mention the target user (full id or the local part before '@')
// or the catch-all keyword. The remainder after the first colon becomes the
// action message.
func ExtractActions(text, userID string) []topic.NotificationAction {
	localPart := userID
	if at := strings.Index(userID, "@"); at > 0 {
		localPart = userID[:at]
	}

	var actions []topic.NotificationAction
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isAttendeeLine(line) {
			continue
		}

		sep := strings.Index(line, ":")
		width := 1
		if cn := strings.Index(line, "："); cn != -1 && (sep == -1 || cn < sep) {
			sep, width = cn, len("：")
		}
		if sep == -1 {
			continue
		}

		lower := strings.ToLower(line)
		if !strings.Contains(lower, strings.ToLower(userID)) &&
			!strings.Contains(lower, strings.ToLower(localPart)) &&
			!strings.Contains(lower, CatchAllKeyword) {
			continue
		}

		message := strings.TrimSpace(line[sep+width:])
		if message == "" {
			continue
		}

		actions = append(actions, topic.NotificationAction{
			ActionType: topic.ActionNotify,
			TargetUser: userID,
			Message:    message,
			Severity:   topic.SeverityInfo,
			Tags:       []string{"heuristic"},
		})
	}
	return actions
}

func isAttendeeLine(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range attendeeMarkers {
		if strings.HasPrefix(lower, marker) {
			return true
		}
	}
	return false
}
