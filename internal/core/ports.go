package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// TargetInfo identifies the recipient of a generated phishing email
type TargetInfo struct {
	Name       string
	Email      string
	Department string
}

// EmailGenerator defines the interface for generating simulation email content
type EmailGenerator interface {
	// GenerateEmail produces subject and body text for the given target and
	// template type
	GenerateEmail(ctx context.Context, target TargetInfo, templateType string) (*GeneratedEmail, error)
}

// EmailSender defines the interface for delivering generated emails
type EmailSender interface {
	// Send delivers a generated email to the given address
	Send(ctx context.Context, to string, email *GeneratedEmail) error
}

// Store defines the interface for the email-interaction store
type Store interface {
	// Departments
	CreateDepartment(ctx context.Context, dept *Department) error
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	UpdateDepartment(ctx context.Context, dept *Department) error
	DeleteDepartment(ctx context.Context, id int64) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, departmentID int64) ([]User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id int64) error

	// Email logs. departmentID/userID of zero mean no filter.
	CreateEmailLog(ctx context.Context, log *EmailLog) error
	GetEmailLog(ctx context.Context, id int64) (*EmailLog, error)
	ListEmailLogs(ctx context.Context, userID, departmentID int64) ([]EmailLog, error)
	UpdateEmailLog(ctx context.Context, log *EmailLog) error
	DeleteEmailLog(ctx context.Context, id int64) error
}
