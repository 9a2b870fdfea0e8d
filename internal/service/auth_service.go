package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Tasker/internal/auth"
	dom "Tasker/internal/domain"
	"Tasker/internal/repo"
	"Tasker/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TokenIssuer issues bearer tokens for a subject.
type TokenIssuer interface {
	Issue(subject uuid.UUID) (string, error)
	TTL() time.Duration
}

// AuthResult is returned by Register and Login. User never carries the hash.
type AuthResult struct {
	User        dom.User
	AccessToken string
	ExpiresIn   time.Duration
}

// AuthService handles registration and login.
type AuthService struct {
	users  repo.UserRepo
	hasher auth.PasswordHasher
	tokens TokenIssuer
}

// NewAuthService returns a new AuthService.
func NewAuthService(users repo.UserRepo, hasher auth.PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a new user with a hashed password and issues a token.
// The email is checked before anything is written.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (AuthResult, error) {
	email = utils.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return AuthResult{}, fmt.Errorf("%w: email, name and password are required", ErrInvalidInput)
	}

	_, err := s.users.GetByEmail(ctx, email, false)
	if err == nil {
		return AuthResult{}, ErrDuplicateIdentity
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, dom.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return AuthResult{}, ErrDuplicateIdentity
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}
	return s.issue(u)
}

// Login checks email and password. Unknown email and wrong password
// produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if u.PasswordHash == "" || !s.hasher.Verify(password, u.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) issue(u dom.User) (AuthResult, error) {
	u.PasswordHash = ""
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: u, AccessToken: token, ExpiresIn: s.tokens.TTL()}, nil
}
