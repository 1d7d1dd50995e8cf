package feedback

import "time"

// Kind classifies a feedback entry.
type Kind string

const (
	KindBug  Kind = "bug"
	KindIdea Kind = "idea"
)

// Status represents the lifecycle of a feedback entry.
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// Entry mirrors the feedback_entries table.
type Entry struct {
	ID         string
	Kind       Kind
	Title      string
	Detail     string
	Status     Status
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ResolvedAt *time.Time
}
