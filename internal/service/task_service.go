package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Tasker/internal/cache"
	dom "Tasker/internal/domain"
	"Tasker/internal/paging"
	"Tasker/internal/repo"
	"Tasker/internal/timeline"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var errTaskNotFound = fmt.Errorf("task %w", ErrNotFound)

type TaskInput struct {
	Title       string
	Description string
	Priority    dom.TaskPriority
	DueAt       time.Time
}

type TaskQuery struct {
	Filter  dom.TaskFilter
	Page    int
	Limit   int
	BaseURL string
}

type GetOptions struct {
	IncludeDeleted bool
}

// TaskView is a task as returned to callers, with its timeline status
// computed at read time.
type TaskView struct {
	Task     dom.Task
	Timeline timeline.Status
}

type TaskService struct {
	tasks repo.TaskRepo
	lists repo.TodoListRepo
	cache *cache.PageCache
	sf    singleflight.Group
	now   func() time.Time
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(tasks repo.TaskRepo, lists repo.TodoListRepo, c *cache.PageCache) *TaskService {
	return &TaskService{tasks: tasks, lists: lists, cache: c, now: time.Now}
}

// Create adds a task to one of the owner's lists.
func (s *TaskService) Create(ctx context.Context, ownerID, listID uuid.UUID, in TaskInput) (TaskView, error) {
	if err := s.ownList(ctx, ownerID, listID); err != nil {
		return TaskView{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return TaskView{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	priority := in.Priority
	if priority == "" {
		priority = dom.PriorityMedium
	}
	if !priority.Valid() {
		return TaskView{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}
	if in.DueAt.IsZero() || in.DueAt.Before(s.now()) {
		return TaskView{}, ErrInvalidDueDate
	}

	t, err := s.tasks.Create(ctx, dom.Task{
		ID:          uuid.New(),
		ListID:      listID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      dom.StatusPending,
		Priority:    priority,
		DueAt:       in.DueAt.UTC(),
	})
	if err != nil {
		return TaskView{}, err
	}
	invalidate(ctx, s.cache, cache.TasksScope(ownerID, listID))
	return s.view(t), nil
}

// ListByList returns one page of live tasks in the list ordered by due date,
// then newest first.
func (s *TaskService) ListByList(ctx context.Context, ownerID, listID uuid.UUID, q TaskQuery) (paging.Page[TaskView], error) {
	offset, err := paging.Offset(q.Page, q.Limit)
	if err != nil {
		return paging.Page[TaskView]{}, err
	}
	if err := s.ownList(ctx, ownerID, listID); err != nil {
		return paging.Page[TaskView]{}, err
	}

	f := q.Filter
	f.Search = strings.TrimSpace(f.Search)
	items, total, err := loadPage(ctx, s.cache, &s.sf, cache.TasksScope(ownerID, listID), taskQueryKey(f, q.Page, q.Limit),
		func(ctx context.Context) ([]dom.Task, int64, error) {
			return s.tasks.ListByList(ctx, ownerID, listID, f, offset, q.Limit)
		})
	if err != nil {
		return paging.Page[TaskView]{}, err
	}

	views := make([]TaskView, len(items))
	for i := range items {
		views[i] = s.view(items[i])
	}
	return paging.Paginate(views, total, q.Page, q.Limit, q.BaseURL)
}

func (s *TaskService) GetByID(ctx context.Context, ownerID, id uuid.UUID, opts GetOptions) (TaskView, error) {
	t, err := s.get(ctx, ownerID, id, opts.IncludeDeleted)
	if err != nil {
		return TaskView{}, err
	}
	return s.view(t), nil
}

// Update checks ownership, then applies patch with a write that is itself
// conditioned on ownership. A row lost in between is ErrUpdateFailed.
func (s *TaskService) Update(ctx context.Context, ownerID, id uuid.UUID, patch dom.TaskPatch) (TaskView, error) {
	existing, err := s.get(ctx, ownerID, id, false)
	if err != nil {
		return TaskView{}, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return TaskView{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		patch.Description = &desc
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return TaskView{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return TaskView{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *patch.Priority)
	}
	if patch.DueAt != nil {
		if patch.DueAt.Before(s.now()) {
			return TaskView{}, ErrInvalidDueDate
		}
		due := patch.DueAt.UTC()
		patch.DueAt = &due
	}

	t, err := s.tasks.Update(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TaskView{}, fmt.Errorf("%w task", ErrUpdateFailed)
		}
		return TaskView{}, err
	}
	invalidate(ctx, s.cache, cache.TasksScope(ownerID, existing.ListID))
	return s.view(t), nil
}

// Delete soft-deletes the task; the row stays with IsDeleted set.
func (s *TaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	existing, err := s.get(ctx, ownerID, id, false)
	if err != nil {
		return err
	}
	n, err := s.tasks.SoftDelete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errTaskNotFound
	}
	invalidate(ctx, s.cache, cache.TasksScope(ownerID, existing.ListID))
	return nil
}

func (s *TaskService) get(ctx context.Context, ownerID, id uuid.UUID, includeDeleted bool) (dom.Task, error) {
	t, err := s.tasks.GetByID(ctx, ownerID, id, includeDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, errTaskNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

func (s *TaskService) ownList(ctx context.Context, ownerID, listID uuid.UUID) error {
	if _, err := s.lists.GetByID(ctx, ownerID, listID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errListNotFound
		}
		return err
	}
	return nil
}

func (s *TaskService) view(t dom.Task) TaskView {
	return TaskView{Task: t, Timeline: timeline.Classify(t.DueAt, s.now())}
}

func taskQueryKey(f dom.TaskFilter, page, limit int) string {
	parts := []string{strconv.Itoa(page), strconv.Itoa(limit), "", "", strings.ToLower(f.Search), "", ""}
	if f.Status != nil {
		parts[2] = string(*f.Status)
	}
	if f.Priority != nil {
		parts[3] = string(*f.Priority)
	}
	if f.DueFrom != nil {
		parts[5] = strconv.FormatInt(f.DueFrom.UnixNano(), 10)
	}
	if f.DueTo != nil {
		parts[6] = strconv.FormatInt(f.DueTo.UnixNano(), 10)
	}
	return strings.Join(parts, ":")
}
