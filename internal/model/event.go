package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth       = "auth"
	EventCategoryContent    = "content"
	EventCategoryModeration = "moderation"
	EventCategoryUser       = "user"
	EventCategoryAPI        = "api"
	EventCategorySystem     = "system"
	EventCategoryCache      = "cache"
)

// Event represents a local event log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	VisitorID string
	Metadata  string // JSON string
	CreatedAt time.Time
}
