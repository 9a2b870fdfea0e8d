package repo

import (
	"context"

	dom "Tasker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TodoListRepo persists lists. Every read and write is scoped by the owner.
// Lookups and updates return pgx.ErrNoRows when no owned row matches.
type TodoListRepo interface {
	Create(ctx context.Context, l dom.TodoList) (dom.TodoList, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (dom.TodoList, error)
	List(ctx context.Context, userID uuid.UUID, f dom.ListFilter, offset, limit int) ([]dom.TodoList, int64, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch dom.TodoListPatch) (dom.TodoList, error)
	// Delete removes the list and, through the foreign key, its tasks.
	Delete(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

type PGTodoListRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoListRepo(db *pgxpool.Pool) *PGTodoListRepo {
	return &PGTodoListRepo{db: db}
}

const listColumns = `l.id, l.user_id, l.name, l.description, l.created_at, l.updated_at`

func scanList(row scanner) (dom.TodoList, error) {
	var l dom.TodoList
	err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *PGTodoListRepo) Create(ctx context.Context, l dom.TodoList) (dom.TodoList, error) {
	query := `
		INSERT INTO todo_lists AS l (id, user_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + listColumns
	return scanList(r.db.QueryRow(ctx, query, l.ID, l.UserID, l.Name, l.Description))
}

func (r *PGTodoListRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (dom.TodoList, error) {
	query := `SELECT ` + listColumns + ` FROM todo_lists l WHERE l.id = $1 AND l.user_id = $2`
	return scanList(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGTodoListRepo) List(ctx context.Context, userID uuid.UUID, f dom.ListFilter, offset, limit int) ([]dom.TodoList, int64, error) {
	w := listWhere(userID, f)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM todo_lists l`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + listColumns + ` FROM todo_lists l` + w.String() +
		` ORDER BY l.created_at DESC` + w.page(offset, limit)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []dom.TodoList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

func (r *PGTodoListRepo) Update(ctx context.Context, userID, id uuid.UUID, patch dom.TodoListPatch) (dom.TodoList, error) {
	query := `
		UPDATE todo_lists l SET
			name = COALESCE($3, l.name),
			description = COALESCE($4, l.description),
			updated_at = NOW()
		WHERE l.id = $1 AND l.user_id = $2
		RETURNING ` + listColumns
	return scanList(r.db.QueryRow(ctx, query, id, userID, patch.Name, patch.Description))
}

func (r *PGTodoListRepo) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM todo_lists WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
