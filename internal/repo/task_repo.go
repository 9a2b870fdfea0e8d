package repo

import (
	"context"

	dom "Tasker/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepo persists tasks. Ownership is checked through the parent list,
// so every method takes the owning user's id.
// Lookups and updates return pgx.ErrNoRows when no owned row matches.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id uuid.UUID, includeDeleted bool) (dom.Task, error)
	ListByList(ctx context.Context, userID, listID uuid.UUID, f dom.TaskFilter, offset, limit int) ([]dom.Task, int64, error)
	CountByList(ctx context.Context, userID, listID uuid.UUID) (int64, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch dom.TaskPatch) (dom.Task, error)
	SoftDelete(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `t.id, t.list_id, t.title, t.description, t.status, t.priority, t.due_at, t.is_deleted, t.created_at, t.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (dom.Task, error) {
	var t dom.Task
	var status, priority string
	err := row.Scan(&t.ID, &t.ListID, &t.Title, &t.Description, &status, &priority,
		&t.DueAt, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
	t.Status = dom.TaskStatus(status)
	t.Priority = dom.TaskPriority(priority)
	return t, err
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks AS t (id, list_id, title, description, status, priority, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, t.ID, t.ListID, t.Title, t.Description,
		string(t.Status), string(t.Priority), t.DueAt))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id uuid.UUID, includeDeleted bool) (dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t JOIN todo_lists l ON l.id = t.list_id
		WHERE t.id = $1 AND l.user_id = $2`
	if !includeDeleted {
		query += ` AND t.is_deleted = FALSE`
	}
	return scanTask(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGTaskRepo) ListByList(ctx context.Context, userID, listID uuid.UUID, f dom.TaskFilter, offset, limit int) ([]dom.Task, int64, error) {
	w := taskWhere(userID, listID, f)
	from := ` FROM tasks t JOIN todo_lists l ON l.id = t.list_id`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taskColumns + from + w.String() +
		` ORDER BY t.due_at ASC, t.created_at DESC` + w.page(offset, limit)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (r *PGTaskRepo) CountByList(ctx context.Context, userID, listID uuid.UUID) (int64, error) {
	w := taskWhere(userID, listID, dom.TaskFilter{})
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks t JOIN todo_lists l ON l.id = t.list_id`+w.String(), w.args...).Scan(&n)
	return n, err
}

// Update applies patch in one statement conditioned on ownership, so a task
// moved or deleted since the caller's check yields pgx.ErrNoRows.
func (r *PGTaskRepo) Update(ctx context.Context, userID, id uuid.UUID, patch dom.TaskPatch) (dom.Task, error) {
	query := `
		UPDATE tasks t SET
			title = COALESCE($3, t.title),
			description = COALESCE($4, t.description),
			status = COALESCE($5, t.status),
			priority = COALESCE($6, t.priority),
			due_at = COALESCE($7, t.due_at),
			updated_at = NOW()
		FROM todo_lists l
		WHERE t.id = $1 AND t.list_id = l.id AND l.user_id = $2 AND t.is_deleted = FALSE
		RETURNING ` + taskColumns
	var status, priority *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	if patch.Priority != nil {
		p := string(*patch.Priority)
		priority = &p
	}
	return scanTask(r.db.QueryRow(ctx, query, id, userID,
		patch.Title, patch.Description, status, priority, patch.DueAt))
}

func (r *PGTaskRepo) SoftDelete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE tasks t SET is_deleted = TRUE, updated_at = NOW()
		FROM todo_lists l
		WHERE t.id = $1 AND t.list_id = l.id AND l.user_id = $2 AND t.is_deleted = FALSE`,
		id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
