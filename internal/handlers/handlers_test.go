package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Tasker/internal/auth"
	"Tasker/internal/repo/repotest"
	"Tasker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() { gin.SetMode(gin.TestMode) }

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "plain:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "plain:"+p }

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Errors     *struct {
		Path string `json:"path"`
	} `json:"errors"`
}

type harness struct {
	t *testing.T
	r *gin.Engine
}

func newHarness(t *testing.T, maxLimit int) *harness {
	store := repotest.NewStore()
	users, lists, tasks := repotest.Users{Store: store}, repotest.Lists{Store: store}, repotest.Tasks{Store: store}
	tokens := auth.NewTokenIssuer("handler-test-secret", "tasker-test", time.Hour)
	log := zerolog.Nop()

	r := gin.New()
	ah := NewAuthHandler(service.NewAuthService(users, plainHasher{}, tokens), log)
	r.POST("/auth/register", ah.Register)
	r.POST("/auth/login", ah.Login)

	p := r.Group("", auth.RequireToken(tokens))
	lh := NewTodoListHandler(service.NewTodoListService(lists, tasks, nil), maxLimit, log)
	p.POST("/todo-lists", lh.Create)
	p.GET("/todo-lists", lh.List)
	p.GET("/todo-lists/:id", lh.GetByID)
	p.PATCH("/todo-lists/:id", lh.Update)
	p.DELETE("/todo-lists/:id", lh.Delete)
	th := NewTaskHandler(service.NewTaskService(tasks, lists, nil), maxLimit, log)
	p.POST("/todo-lists/:id/tasks", th.Create)
	p.GET("/todo-lists/:id/tasks", th.List)
	p.GET("/tasks/:id", th.GetByID)
	p.PATCH("/tasks/:id", th.Update)
	p.DELETE("/tasks/:id", th.Delete)
	return &harness{t: t, r: r}
}

func (h *harness) do(method, path string, body any, token string) (int, envelope, string) {
	h.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			h.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		h.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env, rec.Body.String()
}

// register creates a user and returns its access token.
func (h *harness) register(email string) string {
	h.t.Helper()
	code, env, raw := h.do(http.MethodPost, "/auth/register",
		map[string]string{"email": email, "name": "Test User", "password": "Passw0rd!"}, "")
	if code != http.StatusCreated {
		h.t.Fatalf("register %s: %d %s", email, code, raw)
	}
	var res struct {
		AccessToken string `json:"access_token"`
	}
	decode(h.t, env.Data, &res)
	return res.AccessToken
}

func (h *harness) createList(token, name string) string {
	h.t.Helper()
	code, env, raw := h.do(http.MethodPost, "/todo-lists", map[string]string{"name": name}, token)
	if code != http.StatusCreated {
		h.t.Fatalf("create list: %d %s", code, raw)
	}
	var l struct {
		ID string `json:"id"`
	}
	decode(h.t, env.Data, &l)
	return l.ID
}

func decode(t *testing.T, data json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}
