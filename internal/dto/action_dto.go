package dto

import "topic-memory-be/pkg/topic"

// ActionBatchMessage is the payload published on the internal bus for every
// batch of generated actions, consumed by the dispatcher.
type ActionBatchMessage struct {
	TopicId    string                     `json:"topic_id"`
	TopicTitle string                     `json:"topic_title"`
	Actions    []topic.NotificationAction `json:"actions"`
}
