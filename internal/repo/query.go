package repo

import (
	"strconv"
	"strings"

	dom "Tasker/internal/domain"
	"Tasker/internal/utils"

	"github.com/google/uuid"
)

// where collects AND-ed conditions with positional ($n) arguments.
type where struct {
	conds []string
	args  []any
}

// add appends cond, replacing each "?" with the next placeholder.
func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (w *where) page(offset, limit int) string {
	w.args = append(w.args, limit, offset)
	n := len(w.args)
	return " LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n)
}

func taskWhere(userID, listID uuid.UUID, f dom.TaskFilter) *where {
	w := &where{}
	w.add("l.user_id = ?", userID)
	w.add("t.list_id = ?", listID)
	w.add("t.is_deleted = FALSE")
	if f.Status != nil {
		w.add("t.status = ?", string(*f.Status))
	}
	if f.Priority != nil {
		w.add("t.priority = ?", string(*f.Priority))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := utils.ContainsPattern(s)
		w.add("(t.title ILIKE ? OR t.description ILIKE ?)", p, p)
	}
	if f.DueFrom != nil {
		w.add("t.due_at >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		w.add("t.due_at <= ?", *f.DueTo)
	}
	return w
}

func listWhere(userID uuid.UUID, f dom.ListFilter) *where {
	w := &where{}
	w.add("l.user_id = ?", userID)
	if s := strings.TrimSpace(f.Search); s != "" {
		p := utils.ContainsPattern(s)
		w.add("(l.name ILIKE ? OR l.description ILIKE ?)", p, p)
	}
	return w
}
