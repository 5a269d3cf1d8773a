package tasks

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redwanhasan980/TaskManagement/auth"
)

// Status tracks where a task sits on the board.
type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// IsValid checks the status is one of the predefined values
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// IsValid checks the priority is one of the predefined values
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task is the task model. Every task belongs to exactly one user.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   string     `bun:"description" json:"description"`
	Status        Status     `bun:"status,notnull" json:"status"`
	Priority      Priority   `bun:"priority,notnull" json:"priority"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id"`
	Owner         *auth.User `bun:"rel:has-one,join:user_id=id" json:"owner,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// EnsureDefaults fills in the board defaults for new tasks.
func (t *Task) EnsureDefaults() {
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

// Stats aggregates a user's tasks by status.
type Stats struct {
	Total      int `bun:"total" json:"total"`
	Todo       int `bun:"todo" json:"todo"`
	InProgress int `bun:"in_progress" json:"in_progress"`
	Done       int `bun:"done" json:"done"`
}
