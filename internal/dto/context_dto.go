package dto

import "time"

type ContextCreateRequest struct {
	Author string   `json:"author"`
	Text   string   `json:"text" validate:"required"`
	Tags   []string `json:"tags"`
	Source string   `json:"source"`
}

type ContextEntryResponse struct {
	Id        string    `json:"id"`
	TopicId   string    `json:"topic_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ImportAssetsRequest struct {
	Date   string `json:"date" validate:"required"`
	Author string `json:"author"`
}
