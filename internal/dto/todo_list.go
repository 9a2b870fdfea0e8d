package dto

import "time"

type CreateTodoListRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=50"`
	Description string `json:"description" binding:"max=500"`
}

type UpdateTodoListRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// TodoListResponse carries Tasks only when requested with include=tasks.
type TodoListResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	TaskCount   *int64         `json:"task_count,omitempty"`
	Tasks       []TaskResponse `json:"tasks,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DeleteResponse is the success marker for deletions.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
