package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/smx/phishsim/internal/core"
)

// MemoryStore is an in-memory implementation of the core.Store interface,
// used for tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	departments map[int64]core.Department
	users       map[int64]core.User
	emailLogs   map[int64]core.EmailLog
	nextDeptID  int64
	nextUserID  int64
	nextLogID   int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		departments: make(map[int64]core.Department),
		users:       make(map[int64]core.User),
		emailLogs:   make(map[int64]core.EmailLog),
		nextDeptID:  1,
		nextUserID:  1,
		nextLogID:   1,
	}
}

// CreateDepartment stores a new department
func (s *MemoryStore) CreateDepartment(_ context.Context, dept *core.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dept.ID = s.nextDeptID
	s.nextDeptID++
	s.departments[dept.ID] = *dept
	return nil
}

// GetDepartment retrieves a department by ID
func (s *MemoryStore) GetDepartment(_ context.Context, id int64) (*core.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dept, ok := s.departments[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &dept, nil
}

// ListDepartments lists all departments ordered by ID
func (s *MemoryStore) ListDepartments(_ context.Context) ([]core.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Department, 0, len(s.departments))
	for _, dept := range s.departments {
		out = append(out, dept)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateDepartment replaces a stored department
func (s *MemoryStore) UpdateDepartment(_ context.Context, dept *core.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[dept.ID]; !ok {
		return core.ErrNotFound
	}
	s.departments[dept.ID] = *dept
	return nil
}

// DeleteDepartment removes a department
func (s *MemoryStore) DeleteDepartment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.departments, id)
	return nil
}

// CreateUser stores a new user
func (s *MemoryStore) CreateUser(_ context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = *user
	return nil
}

// GetUser retrieves a user by ID
func (s *MemoryStore) GetUser(_ context.Context, id int64) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &user, nil
}

// ListUsers lists users, optionally filtered by department
func (s *MemoryStore) ListUsers(_ context.Context, departmentID int64) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.User, 0, len(s.users))
	for _, user := range s.users {
		if departmentID != 0 && user.DepartmentID != departmentID {
			continue
		}
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateUser replaces a stored user
func (s *MemoryStore) UpdateUser(_ context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return core.ErrNotFound
	}
	s.users[user.ID] = *user
	return nil
}

// DeleteUser removes a user
func (s *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// CreateEmailLog stores a new email log
func (s *MemoryStore) CreateEmailLog(_ context.Context, log *core.EmailLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.ID = s.nextLogID
	s.nextLogID++
	s.emailLogs[log.ID] = *log
	return nil
}

// GetEmailLog retrieves an email log by ID
func (s *MemoryStore) GetEmailLog(_ context.Context, id int64) (*core.EmailLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.emailLogs[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &log, nil
}

// ListEmailLogs lists email logs, optionally filtered by user or department
func (s *MemoryStore) ListEmailLogs(_ context.Context, userID, departmentID int64) ([]core.EmailLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.EmailLog, 0, len(s.emailLogs))
	for _, log := range s.emailLogs {
		if userID != 0 && log.UserID != userID {
			continue
		}
		if departmentID != 0 {
			user, ok := s.users[log.UserID]
			if !ok || user.DepartmentID != departmentID {
				continue
			}
		}
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateEmailLog replaces a stored email log
func (s *MemoryStore) UpdateEmailLog(_ context.Context, log *core.EmailLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emailLogs[log.ID]; !ok {
		return core.ErrNotFound
	}
	s.emailLogs[log.ID] = *log
	return nil
}

// DeleteEmailLog removes an email log
func (s *MemoryStore) DeleteEmailLog(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emailLogs[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.emailLogs, id)
	return nil
}
