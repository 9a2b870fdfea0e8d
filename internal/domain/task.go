package domain

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is owned transitively through its list.
// Soft-deleted tasks keep their row with IsDeleted set.
type Task struct {
	ID          uuid.UUID
	ListID      uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueAt       time.Time
	IsDeleted   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskPatch holds optional changes; nil fields are left as is.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueAt       *time.Time
}

// TaskFilter narrows tasks of one list. Zero values / nil pointers mean
// the filter is not applied; all applied filters are AND-ed.
// DueFrom and DueTo are inclusive and independent.
type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	Search   string
	DueFrom  *time.Time
	DueTo    *time.Time
}
