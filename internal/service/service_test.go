package service

import (
	"context"
	"time"

	"Tasker/internal/auth"
	"Tasker/internal/repo/repotest"

	"github.com/google/uuid"
)

const testBaseURL = "http://localhost:8080/api/v1/todo-lists"

type fakeHasher struct{ calls int }

func (h *fakeHasher) Hash(p string) (string, error) {
	h.calls++
	return "hashed:" + p, nil
}

func (h *fakeHasher) Verify(p, hash string) bool { return hash == "hashed:"+p }

type fixture struct {
	store  *repotest.Store
	tokens *auth.TokenIssuer
	hasher *fakeHasher
	auth   *AuthService
	lists  *TodoListService
	tasks  *TaskService
	now    time.Time
}

func newFixture() *fixture {
	store := repotest.NewStore()
	tokens := auth.NewTokenIssuer("test-secret", "tasker-test", time.Hour)
	hasher := &fakeHasher{}
	now := time.Now().UTC()

	tasks := NewTaskService(repotest.Tasks{Store: store}, repotest.Lists{Store: store}, nil)
	tasks.now = func() time.Time { return now }
	lists := NewTodoListService(repotest.Lists{Store: store}, repotest.Tasks{Store: store}, nil)
	lists.now = tasks.now

	return &fixture{
		store:  store,
		tokens: tokens,
		hasher: hasher,
		auth:   NewAuthService(repotest.Users{Store: store}, hasher, tokens),
		lists:  lists,
		tasks:  tasks,
		now:    now,
	}
}

func (f *fixture) newList(owner uuid.UUID, name string) uuid.UUID {
	l, err := f.lists.Create(context.Background(), owner, ListInput{Name: name})
	if err != nil {
		panic(err)
	}
	return l.ID
}

func (f *fixture) newTask(owner, list uuid.UUID, title string, dueIn time.Duration) TaskView {
	v, err := f.tasks.Create(context.Background(), owner, list, TaskInput{Title: title, DueAt: f.now.Add(dueIn)})
	if err != nil {
		panic(err)
	}
	return v
}
