package dto

import "topic-memory-be/pkg/topic"

type CreateTopicRequest struct {
	TopicId string         `json:"topic_id"`
	Title   string         `json:"title" validate:"required"`
	Goal    string         `json:"goal"`
	Members []topic.Member `json:"members"`
}

type IngestRawRequest struct {
	MeetingId  string `json:"meeting_id"`
	Transcript string `json:"transcript" validate:"required"`
}

type ProcessAssetsRequest struct {
	UserId string `json:"user_id" validate:"required"`
	Date   string `json:"date" validate:"required"`
}

type GenerateActionsRequest struct {
	UserId       string `json:"user_id" validate:"required"`
	ExtraContext string `json:"extra_context"`
}

type ActionListResponse struct {
	TopicId string                     `json:"topic_id"`
	Actions []topic.NotificationAction `json:"actions"`
}
