package repository

import "time"

// Channel represents a channel row: a versioned collection of topics and
// content items.
type Channel struct {
	ID          string
	Name        string
	Description string
	Language    string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Topic represents a topic row. Topics form a tree within a channel; a nil
// ParentID marks a root topic.
type Topic struct {
	ID          string
	ChannelID   string
	ParentID    *string
	Title       string
	Description string
	SortOrder   int
}

// Content represents a content item row. A nil TopicID places the item at
// the channel root.
type Content struct {
	ID          string
	ChannelID   string
	TopicID     *string
	Title       string
	Kind        string
	Description string
	Author      string
	License     string
	FileSize    int64
	SortOrder   int
}

// Content kinds understood by the renderer.
const (
	KindVideo    = "video"
	KindAudio    = "audio"
	KindDocument = "document"
	KindExercise = "exercise"
	KindHTML     = "html"
)
