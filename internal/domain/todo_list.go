package domain

import (
	"time"

	"github.com/google/uuid"
)

// TodoList belongs to exactly one user and groups tasks.
type TodoList struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoListPatch holds optional changes; nil fields are left as is.
type TodoListPatch struct {
	Name        *string
	Description *string
}

// ListFilter narrows a user's lists. Empty Search means no filter.
type ListFilter struct {
	Search string
}
