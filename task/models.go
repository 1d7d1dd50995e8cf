package task

import "time"

// Status tracks where a task sits on the board.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusDone:
		return true
	default:
		return false
	}
}

// Priority orders tasks within a status column.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task mirrors the tasks table.
type Task struct {
	ID         string
	Title      string
	Notes      string
	Status     Status
	Priority   Priority
	AssigneeID *string
	DueDate    *time.Time
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filters narrows task listings. Zero values match everything.
type Filters struct {
	Status     Status
	AssigneeID string
}
