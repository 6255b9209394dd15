package entity

import (
	"time"

	"gorm.io/datatypes"
)

// MemoryEntry is the durable log row behind one normalized context item.
// The in-process topic state is authoritative for reads; this log survives
// restarts and feeds the bounded memory slice of action prompts.
type MemoryEntry struct {
	Id        string `gorm:"type:uuid;primaryKey"`
	TopicId   string `gorm:"index:idx_memory_topic_created,priority:1"`
	Type      string
	Text      string
	Actors    datatypes.JSON
	Tags      datatypes.JSON
	Source    string
	Meta      datatypes.JSON
	CreatedAt time.Time `gorm:"index:idx_memory_topic_created,priority:2"`
}
