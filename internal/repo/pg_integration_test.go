//go:build integration

package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	dom "Tasker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Run with: TEST_PG_DSN=postgres://... go test -tags integration ./internal/repo/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		t.Fatalf("goose open: %v", err)
	}
	defer db.Close()
	if err := goose.Up(db, "../../migrations"); err != nil {
		t.Fatalf("goose up: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func newUser(t *testing.T, users *PGUserRepo) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if _, err := users.Create(context.Background(), dom.User{
		ID:           id,
		Email:        id.String() + "@example.com",
		Name:         "Integration",
		PasswordHash: "x",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func newList(t *testing.T, lists *PGTodoListRepo, owner uuid.UUID, name string) dom.TodoList {
	t.Helper()
	l, err := lists.Create(context.Background(), dom.TodoList{ID: uuid.New(), UserID: owner, Name: name})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return l
}

func newTask(t *testing.T, tasks *PGTaskRepo, listID uuid.UUID, title string, due time.Time) dom.Task {
	t.Helper()
	task, err := tasks.Create(context.Background(), dom.Task{
		ID:       uuid.New(),
		ListID:   listID,
		Title:    title,
		Status:   dom.StatusPending,
		Priority: dom.PriorityMedium,
		DueAt:    due,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestPGTodoListRepo_OwnerConditionedWrites(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users, lists := NewPGUserRepo(pool), NewPGTodoListRepo(pool)
	owner, other := newUser(t, users), newUser(t, users)
	l := newList(t, lists, owner, "Mine")

	name := "Taken"
	if _, err := lists.Update(ctx, other, l.ID, dom.TodoListPatch{Name: &name}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("foreign update: err = %v, want pgx.ErrNoRows", err)
	}
	if n, err := lists.Delete(ctx, other, l.ID); err != nil || n != 0 {
		t.Fatalf("foreign delete: n=%d err=%v", n, err)
	}

	desc := "weekly"
	got, err := lists.Update(ctx, owner, l.ID, dom.TodoListPatch{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Mine" || got.Description != "weekly" {
		t.Fatalf("partial update = %+v", got)
	}
}

func TestPGTaskRepo_OwnerConditionedWrites(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users, lists, tasks := NewPGUserRepo(pool), NewPGTodoListRepo(pool), NewPGTaskRepo(pool)
	owner, other := newUser(t, users), newUser(t, users)
	l := newList(t, lists, owner, "Work")
	task := newTask(t, tasks, l.ID, "Ship", time.Now().Add(48*time.Hour))

	title := "Hijacked"
	if _, err := tasks.Update(ctx, other, task.ID, dom.TaskPatch{Title: &title}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("foreign update: err = %v, want pgx.ErrNoRows", err)
	}
	if n, err := tasks.SoftDelete(ctx, other, task.ID); err != nil || n != 0 {
		t.Fatalf("foreign soft delete: n=%d err=%v", n, err)
	}

	done := dom.StatusCompleted
	got, err := tasks.Update(ctx, owner, task.ID, dom.TaskPatch{Status: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != dom.StatusCompleted || got.Title != "Ship" || got.Priority != dom.PriorityMedium {
		t.Fatalf("partial update = %+v", got)
	}

	if n, err := tasks.SoftDelete(ctx, owner, task.ID); err != nil || n != 1 {
		t.Fatalf("soft delete: n=%d err=%v", n, err)
	}
	if _, err := tasks.Update(ctx, owner, task.ID, dom.TaskPatch{Title: &title}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("update after delete: err = %v, want pgx.ErrNoRows", err)
	}
	if _, err := tasks.GetByID(ctx, owner, task.ID, false); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("get deleted: err = %v", err)
	}
	flagged, err := tasks.GetByID(ctx, owner, task.ID, true)
	if err != nil || !flagged.IsDeleted {
		t.Fatalf("get with deleted: %+v, %v", flagged, err)
	}
}

func TestPGTaskRepo_ListByListFilters(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users, lists, tasks := NewPGUserRepo(pool), NewPGTodoListRepo(pool), NewPGTaskRepo(pool)
	owner := newUser(t, users)
	l := newList(t, lists, owner, "Filters")
	now := time.Now().UTC().Truncate(time.Second)
	newTask(t, tasks, l.ID, "100% done", now.Add(2*time.Hour))
	newTask(t, tasks, l.ID, "plain", now.Add(30*time.Hour))
	newTask(t, tasks, l.ID, "later", now.Add(90*time.Hour))

	got, total, err := tasks.ListByList(ctx, owner, l.ID, dom.TaskFilter{Search: "%"}, 0, 10)
	if err != nil || total != 1 || len(got) != 1 || got[0].Title != "100% done" {
		t.Fatalf("escaped search: %v total=%d err=%v", got, total, err)
	}

	got, total, err = tasks.ListByList(ctx, owner, l.ID, dom.TaskFilter{}, 1, 1)
	if err != nil || total != 3 || len(got) != 1 || got[0].Title != "plain" {
		t.Fatalf("window: %v total=%d err=%v", got, total, err)
	}

	if _, total, err := tasks.ListByList(ctx, uuid.New(), l.ID, dom.TaskFilter{}, 0, 10); err != nil || total != 0 {
		t.Fatalf("foreign list: total=%d err=%v", total, err)
	}
}
