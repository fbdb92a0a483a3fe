package datasource

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/gantry/pkg/debug"
	"github.com/vanderheijden86/gantry/pkg/model"
)

// taskColumns are the columns read from the tasks table, in scan order.
// Only id is required; missing columns read as empty.
var taskColumns = []string{
	"id", "parent_task_id", "phase", "start_date", "due_date", "task_type",
	"progress", "title", "code", "assignee_name", "status", "is_critical",
}

// SQLiteReader provides read access to a task database export.
type SQLiteReader struct {
	db      *sql.DB
	path    string
	columns map[string]bool
}

// NewSQLiteReader opens a SQLite source read-only.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	return OpenSQLite(source.Path)
}

// OpenSQLite opens the database at path read-only.
func OpenSQLite(path string) (*SQLiteReader, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	} {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("sqlite %s: %s failed: %v", path, pragma, err)
		}
	}

	r := &SQLiteReader{db: db, path: path}
	if err := r.loadColumns(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteReader) loadColumns() error {
	rows, err := r.db.Query("PRAGMA table_info(tasks)")
	if err != nil {
		return fmt.Errorf("reading tasks schema: %w", err)
	}
	defer rows.Close()

	r.columns = make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     sql.NullString
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("reading tasks schema: %w", err)
		}
		r.columns[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading tasks schema: %w", err)
	}
	if !r.columns["id"] {
		return fmt.Errorf("%s: no tasks table with an id column", r.path)
	}
	return nil
}

// HasColumn reports whether the tasks table has the column.
func (r *SQLiteReader) HasColumn(name string) bool {
	return r.columns[strings.ToLower(name)]
}

// LoadTasks reads every task, optionally restricted to one project. Rows
// keep their insertion order.
func (r *SQLiteReader) LoadTasks(project string) ([]model.Task, error) {
	selects := make([]string, len(taskColumns))
	for i, c := range taskColumns {
		if r.columns[c] {
			selects[i] = c
		} else {
			selects[i] = "NULL"
		}
	}
	query := "SELECT " + strings.Join(selects, ", ") + " FROM tasks"
	var args []any
	if project != "" {
		if !r.columns["project_id"] {
			return nil, fmt.Errorf("%s: tasks table has no project_id column to filter on", r.path)
		}
		query += " WHERE project_id = ?"
		args = append(args, project)
	}
	query += " ORDER BY rowid"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var (
			id, parent, phase, start, due, kind      sql.NullString
			progress, title, code, assignee, status sql.NullString
			critical                                sql.NullString
		)
		if err := rows.Scan(&id, &parent, &phase, &start, &due, &kind,
			&progress, &title, &code, &assignee, &status, &critical); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if !id.Valid || strings.TrimSpace(id.String) == "" {
			continue
		}

		t := model.Task{
			ID:           id.String,
			ParentID:     parent.String,
			Phase:        model.NormalizePhase(phase.String),
			Kind:         model.ParseTaskKind(kind.String),
			Title:        title.String,
			Code:         code.String,
			AssigneeName: assignee.String,
			Status:       strings.ToLower(status.String),
			IsCritical:   truthy(critical.String),
		}
		if progress.Valid {
			if p, err := strconv.Atoi(strings.TrimSpace(progress.String)); err == nil {
				t.Progress = p
			}
		}
		if t.StartDate, err = model.ParseDate(start.String); err != nil {
			return nil, fmt.Errorf("task %s: start_date: %w", t.ID, err)
		}
		if t.DueDate, err = model.ParseDate(due.String); err != nil {
			return nil, fmt.Errorf("task %s: due_date: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// CountTasks returns the number of rows in the tasks table.
func (r *SQLiteReader) CountTasks() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Projects returns the distinct project ids, or nil when the table has no
// project_id column.
func (r *SQLiteReader) Projects() ([]string, error) {
	if !r.columns["project_id"] {
		return nil, nil
	}
	rows, err := r.db.Query("SELECT DISTINCT project_id FROM tasks WHERE project_id IS NOT NULL ORDER BY project_id")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p sql.NullString
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		if p.Valid {
			out = append(out, p.String)
		}
	}
	return out, rows.Err()
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y":
		return true
	}
	return false
}
