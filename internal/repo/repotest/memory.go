// Package repotest provides an in-memory implementation of the repo
// interfaces for tests. It mirrors the Postgres repos' scoping, filtering,
// ordering and error conventions.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "Tasker/internal/domain"
	"Tasker/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	_ repo.UserRepo     = Users{}
	_ repo.TodoListRepo = Lists{}
	_ repo.TaskRepo     = Tasks{}
)

// Store holds users, lists and tasks. Users, Lists and Tasks expose it
// through the three repo interfaces.
type Store struct {
	mu    sync.Mutex
	users map[string]dom.User
	lists map[uuid.UUID]dom.TodoList
	tasks map[uuid.UUID]dom.Task
	clock time.Time

	// BeforeWrite, when set, runs before every update or delete, after the
	// caller's ownership check. Tests use it to interleave another writer.
	BeforeWrite func()
}

func NewStore() *Store {
	return &Store{
		users: map[string]dom.User{},
		lists: map[uuid.UUID]dom.TodoList{},
		tasks: map[uuid.UUID]dom.Task{},
		clock: time.Now().UTC(),
	}
}

// tick returns strictly increasing timestamps so created_at ordering is stable.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *Store) beforeWrite() {
	if s.BeforeWrite != nil {
		s.BeforeWrite()
	}
}

// RemoveTask deletes a task row outright, bypassing ownership.
func (s *Store) RemoveTask(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
}

// RemoveList deletes a list row and its tasks, bypassing ownership.
func (s *Store) RemoveList(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeListLocked(id)
}

func (s *Store) removeListLocked(id uuid.UUID) {
	delete(s.lists, id)
	for tid, t := range s.tasks {
		if t.ListID == id {
			delete(s.tasks, tid)
		}
	}
}

// Users implements repo.UserRepo.
type Users struct{ *Store }

func (r Users) GetByEmail(_ context.Context, email string, withPasswordHash bool) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	if !withPasswordHash {
		u.PasswordHash = ""
	}
	return u, nil
}

func (r Users) Create(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	now := r.tick()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.Email] = u
	u.PasswordHash = ""
	return u, nil
}

// Lists implements repo.TodoListRepo.
type Lists struct{ *Store }

func (r Lists) Create(_ context.Context, l dom.TodoList) (dom.TodoList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.tick()
	l.CreatedAt, l.UpdatedAt = now, now
	r.lists[l.ID] = l
	return l, nil
}

func (r Lists) GetByID(_ context.Context, userID, id uuid.UUID) (dom.TodoList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[id]
	if !ok || l.UserID != userID {
		return dom.TodoList{}, pgx.ErrNoRows
	}
	return l, nil
}

func (r Lists) List(_ context.Context, userID uuid.UUID, f dom.ListFilter, offset, limit int) ([]dom.TodoList, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.TodoList
	for _, l := range r.lists {
		if l.UserID != userID {
			continue
		}
		if f.Search != "" && !containsFold(l.Name, f.Search) && !containsFold(l.Description, f.Search) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, offset, limit), int64(len(out)), nil
}

func (r Lists) Update(_ context.Context, userID, id uuid.UUID, patch dom.TodoListPatch) (dom.TodoList, error) {
	r.beforeWrite()
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[id]
	if !ok || l.UserID != userID {
		return dom.TodoList{}, pgx.ErrNoRows
	}
	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	l.UpdatedAt = r.tick()
	r.lists[id] = l
	return l, nil
}

func (r Lists) Delete(_ context.Context, userID, id uuid.UUID) (int64, error) {
	r.beforeWrite()
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[id]
	if !ok || l.UserID != userID {
		return 0, nil
	}
	r.removeListLocked(id)
	return 1, nil
}

// Tasks implements repo.TaskRepo.
type Tasks struct{ *Store }

func (r Tasks) owned(userID uuid.UUID, t dom.Task) bool {
	l, ok := r.lists[t.ListID]
	return ok && l.UserID == userID
}

func (r Tasks) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.tick()
	t.CreatedAt, t.UpdatedAt = now, now
	r.tasks[t.ID] = t
	return t, nil
}

func (r Tasks) GetByID(_ context.Context, userID, id uuid.UUID, includeDeleted bool) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || !r.owned(userID, t) || (t.IsDeleted && !includeDeleted) {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r Tasks) ListByList(_ context.Context, userID, listID uuid.UUID, f dom.TaskFilter, offset, limit int) ([]dom.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.match(userID, listID, f)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].DueAt.Before(out[j].DueAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return window(out, offset, limit), int64(len(out)), nil
}

func (r Tasks) CountByList(_ context.Context, userID, listID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.match(userID, listID, dom.TaskFilter{}))), nil
}

func (r Tasks) match(userID, listID uuid.UUID, f dom.TaskFilter) []dom.Task {
	var out []dom.Task
	for _, t := range r.tasks {
		switch {
		case t.ListID != listID, !r.owned(userID, t), t.IsDeleted:
			continue
		case f.Status != nil && t.Status != *f.Status:
			continue
		case f.Priority != nil && t.Priority != *f.Priority:
			continue
		case f.Search != "" && !containsFold(t.Title, f.Search) && !containsFold(t.Description, f.Search):
			continue
		case f.DueFrom != nil && t.DueAt.Before(*f.DueFrom):
			continue
		case f.DueTo != nil && t.DueAt.After(*f.DueTo):
			continue
		}
		out = append(out, t)
	}
	return out
}

func (r Tasks) Update(_ context.Context, userID, id uuid.UUID, patch dom.TaskPatch) (dom.Task, error) {
	r.beforeWrite()
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || !r.owned(userID, t) || t.IsDeleted {
		return dom.Task{}, pgx.ErrNoRows
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueAt != nil {
		t.DueAt = *patch.DueAt
	}
	t.UpdatedAt = r.tick()
	r.tasks[id] = t
	return t, nil
}

func (r Tasks) SoftDelete(_ context.Context, userID, id uuid.UUID) (int64, error) {
	r.beforeWrite()
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || !r.owned(userID, t) || t.IsDeleted {
		return 0, nil
	}
	t.IsDeleted = true
	t.UpdatedAt = r.tick()
	r.tasks[id] = t
	return 1, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func window[T any](items []T, offset, limit int) []T {
	if offset < 0 || limit <= 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) || end < offset {
		end = len(items)
	}
	return items[offset:end]
}
