package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/smx/phishsim/internal/core"
)

// MySQLStore is a MySQL implementation of the core.Store interface.
// The DSN must include parseTime=true so DATETIME columns scan as time.Time.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore opens a MySQL-backed store and ensures the schema exists
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS departments (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			department_id BIGINT NOT NULL,
			age INT NOT NULL DEFAULT 0,
			training_completed BOOLEAN NOT NULL DEFAULT FALSE,
			training_completed_at DATETIME(6) NULL,
			INDEX idx_users_department_id (department_id)
		)`,
		`CREATE TABLE IF NOT EXISTS email_logs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			subject TEXT NOT NULL,
			body TEXT NOT NULL,
			template_type VARCHAR(64),
			sent_at DATETIME(6) NOT NULL,
			clicked BOOLEAN NOT NULL DEFAULT FALSE,
			clicked_at DATETIME(6) NULL,
			responded BOOLEAN NOT NULL DEFAULT FALSE,
			responded_at DATETIME(6) NULL,
			INDEX idx_email_logs_user_id (user_id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

// CreateDepartment stores a new department
func (s *MySQLStore) CreateDepartment(ctx context.Context, dept *core.Department) error {
	res, err := s.db.ExecContext(ctx, `INSERT INTO departments (name) VALUES (?)`, dept.Name)
	if err != nil {
		return fmt.Errorf("failed to insert department: %w", err)
	}
	dept.ID, err = res.LastInsertId()
	return err
}

// GetDepartment retrieves a department by ID
func (s *MySQLStore) GetDepartment(ctx context.Context, id int64) (*core.Department, error) {
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
func (s *MySQLStore) ListDepartments(ctx context.Context) ([]core.Department, error) {
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
func (s *MySQLStore) UpdateDepartment(ctx context.Context, dept *core.Department) error {
	res, err := s.db.ExecContext(ctx, `UPDATE departments SET name = ? WHERE id = ?`, dept.Name, dept.ID)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	return requireRow(res)
}

// DeleteDepartment removes a department
func (s *MySQLStore) DeleteDepartment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return requireRow(res)
}

// CreateUser stores a new user
func (s *MySQLStore) CreateUser(ctx context.Context, user *core.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, department_id, age, training_completed, training_completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.DepartmentID, user.Age, user.TrainingCompleted, nullableTime(user.TrainingCompletedAt))
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	return err
}

// GetUser retrieves a user by ID
func (s *MySQLStore) GetUser(ctx context.Context, id int64) (*core.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, department_id, age, training_completed, training_completed_at
		FROM users WHERE id = ?`, id)
	user, err := scanMySQLUser(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// ListUsers lists users, optionally filtered by department
func (s *MySQLStore) ListUsers(ctx context.Context, departmentID int64) ([]core.User, error) {
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
		user, err := scanMySQLUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *user)
	}
	return out, rows.Err()
}

// UpdateUser replaces a stored user
func (s *MySQLStore) UpdateUser(ctx context.Context, user *core.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, department_id = ?, age = ?,
			training_completed = ?, training_completed_at = ?
		WHERE id = ?`,
		user.Name, user.Email, user.DepartmentID, user.Age,
		user.TrainingCompleted, nullableTime(user.TrainingCompletedAt), user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(res)
}

// DeleteUser removes a user
func (s *MySQLStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(res)
}

// CreateEmailLog stores a new email log
func (s *MySQLStore) CreateEmailLog(ctx context.Context, log *core.EmailLog) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO email_logs (user_id, subject, body, template_type, sent_at, clicked, clicked_at, responded, responded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.UserID, log.Subject, log.Body, log.TemplateType, log.SentAt.UTC(),
		log.Clicked, nullableTime(log.ClickedAt),
		log.Responded, nullableTime(log.RespondedAt))
	if err != nil {
		return fmt.Errorf("failed to insert email log: %w", err)
	}
	log.ID, err = res.LastInsertId()
	return err
}

// GetEmailLog retrieves an email log by ID
func (s *MySQLStore) GetEmailLog(ctx context.Context, id int64) (*core.EmailLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, subject, body, template_type, sent_at, clicked, clicked_at, responded, responded_at
		FROM email_logs WHERE id = ?`, id)
	log, err := scanMySQLEmailLog(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query email log: %w", err)
	}
	return log, nil
}

// ListEmailLogs lists email logs, optionally filtered by user or department
func (s *MySQLStore) ListEmailLogs(ctx context.Context, userID, departmentID int64) ([]core.EmailLog, error) {
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
		log, err := scanMySQLEmailLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *log)
	}
	return out, rows.Err()
}

// UpdateEmailLog replaces a stored email log
func (s *MySQLStore) UpdateEmailLog(ctx context.Context, log *core.EmailLog) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE email_logs SET user_id = ?, subject = ?, body = ?, template_type = ?,
			sent_at = ?, clicked = ?, clicked_at = ?, responded = ?, responded_at = ?
		WHERE id = ?`,
		log.UserID, log.Subject, log.Body, log.TemplateType, log.SentAt.UTC(),
		log.Clicked, nullableTime(log.ClickedAt),
		log.Responded, nullableTime(log.RespondedAt), log.ID)
	if err != nil {
		return fmt.Errorf("failed to update email log: %w", err)
	}
	return requireRow(res)
}

// DeleteEmailLog removes an email log
func (s *MySQLStore) DeleteEmailLog(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM email_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete email log: %w", err)
	}
	return requireRow(res)
}

func scanMySQLUser(row rowScanner) (*core.User, error) {
	user := &core.User{}
	var completedAt sql.NullTime
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.DepartmentID,
		&user.Age, &user.TrainingCompleted, &completedAt); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		user.TrainingCompletedAt = &t
	}
	return user, nil
}

func scanMySQLEmailLog(row rowScanner) (*core.EmailLog, error) {
	log := &core.EmailLog{}
	var templateType sql.NullString
	var clickedAt, respondedAt sql.NullTime
	if err := row.Scan(&log.ID, &log.UserID, &log.Subject, &log.Body, &templateType,
		&log.SentAt, &log.Clicked, &clickedAt, &log.Responded, &respondedAt); err != nil {
		return nil, err
	}
	log.TemplateType = templateType.String
	if clickedAt.Valid {
		t := clickedAt.Time
		log.ClickedAt = &t
	}
	if respondedAt.Valid {
		t := respondedAt.Time
		log.RespondedAt = &t
	}
	return log, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
