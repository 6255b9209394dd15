package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ContextEntry is one raw context row imported from an external source
// (chat export, document, asset transcript). Unlike MemoryEntry it is never
// normalized; it is fed verbatim into reasoning prompts.
type ContextEntry struct {
	Id        string `gorm:"type:uuid;primaryKey"`
	TopicId   string `gorm:"index"`
	Author    string
	Text      string
	Tags      datatypes.JSON
	Source    string
	CreatedAt time.Time
}
