package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTime is returned for a timestamp in none of the accepted layouts.
var ErrInvalidTime = errors.New("use date (YYYY-MM-DD) or RFC3339 datetime")

// DueAt parses due_at from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DueAt struct{ t *time.Time }

func (d *DueAt) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	parsed, err := ParseTime(*raw)
	if err != nil {
		return fmt.Errorf("due_at: %w", err)
	}
	d.t = &parsed
	return nil
}

// Ptr returns *time.Time for use in service/domain.
func (d DueAt) Ptr() *time.Time { return d.t }

// ParseTime accepts a date (YYYY-MM-DD) or an RFC3339 datetime.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTime
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"max=500"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueAt       DueAt  `json:"due_at"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueAt       *DueAt  `json:"due_at"` // nil = keep, value = set
}

// TaskQuery is bound from the query string of GET .../tasks.
type TaskQuery struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
	Status   string `form:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high"`
	Search   string `form:"search" binding:"max=100"`
	DueFrom  string `form:"due_from"`
	DueTo    string `form:"due_to"`
}

// ListQuery is bound from the query string of GET /todo-lists.
type ListQuery struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
	Search string `form:"search" binding:"max=100"`
}

type TaskResponse struct {
	ID             string    `json:"id"`
	ListID         string    `json:"todo_list_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	DueAt          time.Time `json:"due_at"`
	IsDeleted      bool      `json:"is_deleted"`
	TimelineStatus string    `json:"timeline_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
