package repo

import (
	"context"

	dom "Tasker/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence. Lookups return pgx.ErrNoRows when absent.
type UserRepo interface {
	// GetByEmail leaves PasswordHash empty unless withPasswordHash is set.
	GetByEmail(ctx context.Context, email string, withPasswordHash bool) (dom.User, error)
	Create(ctx context.Context, u dom.User) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByEmail returns the user by email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string, withPasswordHash bool) (dom.User, error) {
	var u dom.User
	if withPasswordHash {
		err := r.db.QueryRow(ctx,
			`SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email = $1`,
			email,
		).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	}
	err := r.db.QueryRow(ctx,
		`SELECT id, email, name, created_at, updated_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a new user and returns it without the hash.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, created_at, updated_at`
	var out dom.User
	err := r.db.QueryRow(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash).Scan(
		&out.ID, &out.Email, &out.Name, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}
