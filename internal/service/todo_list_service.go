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

var errListNotFound = fmt.Errorf("todo list %w", ErrNotFound)

type ListInput struct {
	Name        string
	Description string
}

type ListQuery struct {
	Search  string
	Page    int
	Limit   int
	BaseURL string
}

// TodoListView is a list with the number of its live tasks. Tasks is
// filled only by GetWithTasks.
type TodoListView struct {
	List      dom.TodoList
	TaskCount int64
	Tasks     []TaskView
}

type TodoListService struct {
	lists repo.TodoListRepo
	tasks repo.TaskRepo
	cache *cache.PageCache
	sf    singleflight.Group
	now   func() time.Time
}

// NewTodoListService creates a TodoListService. If c is nil, caching is disabled.
func NewTodoListService(lists repo.TodoListRepo, tasks repo.TaskRepo, c *cache.PageCache) *TodoListService {
	return &TodoListService{lists: lists, tasks: tasks, cache: c, now: time.Now}
}

func (s *TodoListService) Create(ctx context.Context, ownerID uuid.UUID, in ListInput) (dom.TodoList, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return dom.TodoList{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	l, err := s.lists.Create(ctx, dom.TodoList{
		ID:          uuid.New(),
		UserID:      ownerID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return dom.TodoList{}, err
	}
	invalidate(ctx, s.cache, cache.ListsScope(ownerID))
	return l, nil
}

// List returns one page of the owner's lists, newest first.
func (s *TodoListService) List(ctx context.Context, ownerID uuid.UUID, q ListQuery) (paging.Page[dom.TodoList], error) {
	offset, err := paging.Offset(q.Page, q.Limit)
	if err != nil {
		return paging.Page[dom.TodoList]{}, err
	}
	f := dom.ListFilter{Search: strings.TrimSpace(q.Search)}
	key := strconv.Itoa(q.Page) + ":" + strconv.Itoa(q.Limit) + ":" + strings.ToLower(f.Search)

	items, total, err := loadPage(ctx, s.cache, &s.sf, cache.ListsScope(ownerID), key,
		func(ctx context.Context) ([]dom.TodoList, int64, error) {
			return s.lists.List(ctx, ownerID, f, offset, q.Limit)
		})
	if err != nil {
		return paging.Page[dom.TodoList]{}, err
	}
	return paging.Paginate(items, total, q.Page, q.Limit, q.BaseURL)
}

func (s *TodoListService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (TodoListView, error) {
	l, err := s.get(ctx, ownerID, id)
	if err != nil {
		return TodoListView{}, err
	}
	n, err := s.tasks.CountByList(ctx, ownerID, id)
	if err != nil {
		return TodoListView{}, err
	}
	return TodoListView{List: l, TaskCount: n}, nil
}

// GetWithTasks is GetByID plus the first limit live tasks of the list in
// listing order.
func (s *TodoListService) GetWithTasks(ctx context.Context, ownerID, id uuid.UUID, limit int) (TodoListView, error) {
	if limit <= 0 {
		return TodoListView{}, paging.ErrInvalidPage
	}
	v, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return TodoListView{}, err
	}
	tasks, _, err := s.tasks.ListByList(ctx, ownerID, id, dom.TaskFilter{}, 0, limit)
	if err != nil {
		return TodoListView{}, err
	}
	now := s.now()
	v.Tasks = make([]TaskView, len(tasks))
	for i, t := range tasks {
		v.Tasks[i] = TaskView{Task: t, Timeline: timeline.Classify(t.DueAt, now)}
	}
	return v, nil
}

func (s *TodoListService) Update(ctx context.Context, ownerID, id uuid.UUID, patch dom.TodoListPatch) (dom.TodoList, error) {
	if _, err := s.get(ctx, ownerID, id); err != nil {
		return dom.TodoList{}, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return dom.TodoList{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		patch.Name = &name
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		patch.Description = &desc
	}
	l, err := s.lists.Update(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.TodoList{}, fmt.Errorf("%w todo list", ErrUpdateFailed)
		}
		return dom.TodoList{}, err
	}
	invalidate(ctx, s.cache, cache.ListsScope(ownerID))
	return l, nil
}

// Delete removes the list; its tasks go with it.
func (s *TodoListService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.get(ctx, ownerID, id); err != nil {
		return err
	}
	n, err := s.lists.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errListNotFound
	}
	invalidate(ctx, s.cache, cache.ListsScope(ownerID), cache.TasksScope(ownerID, id))
	return nil
}

func (s *TodoListService) get(ctx context.Context, ownerID, id uuid.UUID) (dom.TodoList, error) {
	l, err := s.lists.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.TodoList{}, errListNotFound
		}
		return dom.TodoList{}, err
	}
	return l, nil
}
