package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestRegister_ValidationMessages(t *testing.T) {
	h := newHarness(t, 100)
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty", `{}`, "email is required"},
		{"bad email", `{"email":"nope","name":"Ann","password":"Passw0rd!"}`, "email must be a valid email address"},
		{"name with digits", `{"email":"a@b.co","name":"R2D2","password":"Passw0rd!"}`, "name can only contain letters and spaces"},
		{"short password", `{"email":"a@b.co","name":"Ann","password":"Pa0!"}`, "password must be at least 8 characters long"},
		{"weak password", `{"email":"a@b.co","name":"Ann","password":"password123"}`, "password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"},
		{"wrong type", `{"email":1,"name":"Ann","password":"Passw0rd!"}`, "email has the wrong type"},
		{"malformed", `{"email":`, "invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env, _ := h.do(http.MethodPost, "/auth/register", tc.body, "")
			if code != http.StatusBadRequest {
				t.Fatalf("code = %d, want 400", code)
			}
			if env.Message != tc.want {
				t.Fatalf("message = %q, want %q", env.Message, tc.want)
			}
			if env.Status != "error" || env.StatusCode != http.StatusBadRequest || env.Errors == nil || env.Errors.Path != "/auth/register" {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t, 100)
	code, env, raw := h.do(http.MethodPost, "/auth/register",
		map[string]string{"email": "Jane@Example.com", "name": "Jane Doe", "password": "Passw0rd!"}, "")
	if code != http.StatusCreated || env.Status != "success" || env.StatusCode != http.StatusCreated {
		t.Fatalf("register: %d %s", code, raw)
	}
	if strings.Contains(raw, "password") || strings.Contains(raw, "plain:") {
		t.Fatalf("register response leaks password material: %s", raw)
	}
	var res struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	decode(t, env.Data, &res)
	if res.User.ID == "" || res.User.Email != "jane@example.com" || res.User.Name != "Jane Doe" {
		t.Fatalf("user = %+v", res.User)
	}
	if res.AccessToken == "" || res.TokenType != "Bearer" || res.ExpiresIn != 3600 {
		t.Fatalf("token = %+v", res)
	}

	code, env, _ = h.do(http.MethodPost, "/auth/register",
		map[string]string{"email": "jane@example.com", "name": "Jane Doe", "password": "Passw0rd!"}, "")
	if code != http.StatusConflict || env.Message != "email already registered" {
		t.Fatalf("duplicate: %d %q", code, env.Message)
	}

	code, _, _ = h.do(http.MethodPost, "/auth/login",
		map[string]string{"email": "jane@example.com", "password": "Passw0rd!"}, "")
	if code != http.StatusOK {
		t.Fatalf("login: %d", code)
	}

	_, wrongPass, _ := h.do(http.MethodPost, "/auth/login",
		map[string]string{"email": "jane@example.com", "password": "Wr0ng!pass"}, "")
	codeUnknown, unknown, _ := h.do(http.MethodPost, "/auth/login",
		map[string]string{"email": "ghost@example.com", "password": "Passw0rd!"}, "")
	if codeUnknown != http.StatusUnauthorized || wrongPass.Message != unknown.Message {
		t.Fatalf("login failures differ: %d %q vs %q", codeUnknown, wrongPass.Message, unknown.Message)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newHarness(t, 100)
	for _, token := range []string{"", "not-a-jwt"} {
		code, env, _ := h.do(http.MethodGet, "/todo-lists", nil, token)
		if code != http.StatusUnauthorized || env.Status != "error" || env.Message != "authorization required" {
			t.Fatalf("token %q: %d %+v", token, code, env)
		}
	}
}

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Passw0rd!":  true,
		"aB3$aaaa":   true,
		"password":   false,
		"PASSWORD1!": false,
		"Password!":  false,
		"Passw0rd":   false,
		" Passw0rd!": false,
	}
	for p, want := range cases {
		if got := isStrongPassword(p); got != want {
			t.Fatalf("isStrongPassword(%q) = %v, want %v", p, got, want)
		}
	}
}
