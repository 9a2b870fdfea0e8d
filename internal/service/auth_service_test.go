package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"Tasker/internal/auth"
	dom "Tasker/internal/domain"
	"Tasker/internal/repo/repotest"

	"github.com/jackc/pgx/v5"
)

func TestAuthService_Register(t *testing.T) {
	f := newFixture()
	res, err := f.auth.Register(context.Background(), " Jane@Example.com ", "Jane Doe", "Passw0rd!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Email != "jane@example.com" || res.User.Name != "Jane Doe" {
		t.Fatalf("user = %+v", res.User)
	}
	if res.User.PasswordHash != "" {
		t.Fatal("summary carries the password hash")
	}
	b, _ := json.Marshal(res.User)
	if strings.Contains(string(b), "hashed") || strings.Contains(string(b), "password") {
		t.Fatalf("serialized user leaks password material: %s", b)
	}
	sub, err := f.tokens.Verify(res.AccessToken)
	if err != nil || sub != res.User.ID {
		t.Fatalf("token subject = %v, %v; want %v", sub, err, res.User.ID)
	}
	if res.ExpiresIn != f.tokens.TTL() {
		t.Fatalf("expires in = %v", res.ExpiresIn)
	}

	stored, err := repotest.Users{Store: f.store}.GetByEmail(context.Background(), "jane@example.com", true)
	if err != nil || stored.PasswordHash != "hashed:Passw0rd!" {
		t.Fatalf("stored hash = %q, %v", stored.PasswordHash, err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.auth.Register(ctx, "jane@example.com", "Jane", "Passw0rd!"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.auth.Register(ctx, "JANE@example.com", "Other", "Passw0rd!")
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want ErrDuplicateIdentity", err)
	}
	if f.hasher.calls != 1 {
		t.Fatalf("hasher called %d times; duplicate must be detected before hashing", f.hasher.calls)
	}
}

// missingUsers hides existing users from the lookup, as when two
// registrations race past the existence check.
type missingUsers struct{ repotest.Users }

func (missingUsers) GetByEmail(context.Context, string, bool) (dom.User, error) {
	return dom.User{}, pgx.ErrNoRows
}

func TestAuthService_Register_UniqueViolationIsDuplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.auth.Register(ctx, "jane@example.com", "Jane", "Passw0rd!"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	racing := NewAuthService(missingUsers{repotest.Users{Store: f.store}}, f.hasher, f.tokens)
	if _, err := racing.Register(ctx, "jane@example.com", "Jane", "Passw0rd!"); !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want ErrDuplicateIdentity", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	reg, err := f.auth.Register(ctx, "jane@example.com", "Jane", "Passw0rd!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := f.auth.Login(ctx, "Jane@Example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.ID != reg.User.ID || res.User.PasswordHash != "" {
		t.Fatalf("user = %+v", res.User)
	}
	if sub, err := f.tokens.Verify(res.AccessToken); err != nil || sub != reg.User.ID {
		t.Fatalf("token subject = %v, %v", sub, err)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.auth.Register(ctx, "jane@example.com", "Jane", "Passw0rd!"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := f.auth.Login(ctx, "jane@example.com", "nope")
	_, unknownEmail := f.auth.Login(ctx, "ghost@example.com", "Passw0rd!")
	_, emptyPassword := f.auth.Login(ctx, "jane@example.com", "")

	for name, err := range map[string]error{"wrong password": wrongPassword, "unknown email": unknownEmail, "empty password": emptyPassword} {
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: err = %v, want ErrInvalidCredentials", name, err)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthService_Bcrypt(t *testing.T) {
	store := repotest.NewStore()
	tokens := auth.NewTokenIssuer("s", "", 0)
	svc := NewAuthService(repotest.Users{Store: store}, auth.NewBcryptHasher(), tokens)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob@example.com", "Bob", "Str0ng!pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	stored, _ := repotest.Users{Store: store}.GetByEmail(ctx, "bob@example.com", true)
	if !strings.HasPrefix(stored.PasswordHash, "$2a$10$") {
		t.Fatalf("stored hash %q is not bcrypt cost 10", stored.PasswordHash)
	}
	if _, err := svc.Login(ctx, "bob@example.com", "Str0ng!pass"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Login(ctx, "bob@example.com", "str0ng!pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong case password: err = %v", err)
	}
}

func TestAuthService_Register_RequiresFields(t *testing.T) {
	f := newFixture()
	if _, err := f.auth.Register(context.Background(), "  ", "Jane", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
