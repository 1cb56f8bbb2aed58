package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
)

// SQLiteStore is a SQLite implementation of the core.Store interface.
// Timestamps are stored as RFC 3339 text.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (and if necessary creates) a SQLite-backed store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS departments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			department_id INTEGER NOT NULL REFERENCES departments(id),
			age INTEGER NOT NULL DEFAULT 0,
			training_completed BOOLEAN NOT NULL DEFAULT 0,
			training_completed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS email_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			template_type TEXT,
			sent_at TEXT NOT NULL,
			clicked BOOLEAN NOT NULL DEFAULT 0,
			clicked_at TEXT,
			responded BOOLEAN NOT NULL DEFAULT 0,
			responded_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_email_logs_user_id ON email_logs(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_department_id ON users(department_id)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateDepartment stores a new department
func (s *SQLiteStore) CreateDepartment(ctx context.Context, dept *core.Department) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO departments (name) VALUES (?)`, dept.Name)
	if err != nil {
		return fmt.Errorf("failed to insert department: %w", err)
	}
	dept.ID, err = res.LastInsertId()
	return err
}

// GetDepartment retrieves a department by ID
func (s *SQLiteStore) GetDepartment(ctx context.Context, id int64) (*core.Department, error) {
	dept := &core.Department{}
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM departments WHERE id = ?`, id).
		Scan(&dept.ID, &dept.Name)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query department: %w", err)
	}
	return dept, nil
}

// ListDepartments lists all departments ordered by ID
func (s *SQLiteStore) ListDepartments(ctx context.Context) ([]core.Department, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	var out []core.Department
	for rows.Next() {
		var dept core.Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, err
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}

// UpdateDepartment replaces a stored department
func (s *SQLiteStore) UpdateDepartment(ctx context.Context, dept *core.Department) error {
	res, err := s.db.ExecContext(ctx, `UPDATE departments SET name = ? WHERE id = ?`, dept.Name, dept.ID)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	return requireRow(res)
}

// DeleteDepartment removes a department
func (s *SQLiteStore) DeleteDepartment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return requireRow(res)
}

// CreateUser stores a new user
func (s *SQLiteStore) CreateUser(ctx context.Context, user *core.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, department_id, age, training_completed, training_completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.DepartmentID, user.Age, user.TrainingCompleted, formatNullableTime(user.TrainingCompletedAt))
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	return err
}

// GetUser retrieves a user by ID
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*core.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, department_id, age, training_completed, training_completed_at
		FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// ListUsers lists users, optionally filtered by department
func (s *SQLiteStore) ListUsers(ctx context.Context, departmentID int64) ([]core.User, error) {
	query := `SELECT id, name, email, department_id, age, training_completed, training_completed_at FROM users`
	args := []interface{}{}
	if departmentID != 0 {
		query += ` WHERE department_id = ?`
		args = append(args, departmentID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *user)
	}
	return out, rows.Err()
}

// UpdateUser replaces a stored user
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *core.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, department_id = ?, age = ?,
			training_completed = ?, training_completed_at = ?
		WHERE id = ?`,
		user.Name, user.Email, user.DepartmentID, user.Age,
		user.TrainingCompleted, formatNullableTime(user.TrainingCompletedAt), user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(res)
}

// DeleteUser removes a user
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(res)
}

// CreateEmailLog stores a new email log
func (s *SQLiteStore) CreateEmailLog(ctx context.Context, log *core.EmailLog) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO email_logs (user_id, subject, body, template_type, sent_at, clicked, clicked_at, responded, responded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.UserID, log.Subject, log.Body, log.TemplateType,
		log.SentAt.UTC().Format(time.RFC3339Nano),
		log.Clicked, formatNullableTime(log.ClickedAt),
		log.Responded, formatNullableTime(log.RespondedAt))
	if err != nil {
		return fmt.Errorf("failed to insert email log: %w", err)
	}
	log.ID, err = res.LastInsertId()
	return err
}

// GetEmailLog retrieves an email log by ID
func (s *SQLiteStore) GetEmailLog(ctx context.Context, id int64) (*core.EmailLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, subject, body, template_type, sent_at, clicked, clicked_at, responded, responded_at
		FROM email_logs WHERE id = ?`, id)
	log, err := scanEmailLog(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query email log: %w", err)
	}
	return log, nil
}

// ListEmailLogs lists email logs, optionally filtered by user or department
func (s *SQLiteStore) ListEmailLogs(ctx context.Context, userID, departmentID int64) ([]core.EmailLog, error) {
	query := `
		SELECT l.id, l.user_id, l.subject, l.body, l.template_type, l.sent_at,
			l.clicked, l.clicked_at, l.responded, l.responded_at
		FROM email_logs l`
	args := []interface{}{}
	switch {
	case userID != 0:
		query += ` WHERE l.user_id = ?`
		args = append(args, userID)
	case departmentID != 0:
		query += ` JOIN users u ON u.id = l.user_id WHERE u.department_id = ?`
		args = append(args, departmentID)
	}
	query += ` ORDER BY l.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query email logs: %w", err)
	}
	defer rows.Close()

	var out []core.EmailLog
	for rows.Next() {
		log, err := scanEmailLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *log)
	}
	return out, rows.Err()
}

// UpdateEmailLog replaces a stored email log
func (s *SQLiteStore) UpdateEmailLog(ctx context.Context, log *core.EmailLog) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE email_logs SET user_id = ?, subject = ?, body = ?, template_type = ?,
			sent_at = ?, clicked = ?, clicked_at = ?, responded = ?, responded_at = ?
		WHERE id = ?`,
		log.UserID, log.Subject, log.Body, log.TemplateType,
		log.SentAt.UTC().Format(time.RFC3339Nano),
		log.Clicked, formatNullableTime(log.ClickedAt),
		log.Responded, formatNullableTime(log.RespondedAt), log.ID)
	if err != nil {
		return fmt.Errorf("failed to update email log: %w", err)
	}
	return requireRow(res)
}

// DeleteEmailLog removes an email log
func (s *SQLiteStore) DeleteEmailLog(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM email_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete email log: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*core.User, error) {
	user := &core.User{}
	var completedAt sql.NullString
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.DepartmentID,
		&user.Age, &user.TrainingCompleted, &completedAt); err != nil {
		return nil, err
	}
	var err error
	user.TrainingCompletedAt, err = parseNullableTime(completedAt)
	return user, err
}

func scanEmailLog(row rowScanner) (*core.EmailLog, error) {
	log := &core.EmailLog{}
	var templateType sql.NullString
	var sentAt string
	var clickedAt, respondedAt sql.NullString
	if err := row.Scan(&log.ID, &log.UserID, &log.Subject, &log.Body, &templateType,
		&sentAt, &log.Clicked, &clickedAt, &log.Responded, &respondedAt); err != nil {
		return nil, err
	}
	log.TemplateType = templateType.String

	var err error
	if log.SentAt, err = time.Parse(time.RFC3339Nano, sentAt); err != nil {
		return nil, fmt.Errorf("failed to parse sent_at timestamp: %w", err)
	}
	if log.ClickedAt, err = parseNullableTime(clickedAt); err != nil {
		return nil, err
	}
	log.RespondedAt, err = parseNullableTime(respondedAt)
	return log, err
}

func formatNullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return &t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
