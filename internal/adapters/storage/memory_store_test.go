package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smx/phishsim/internal/core"
)

func seedDepartment(t *testing.T, store *MemoryStore, name string) *core.Department {
	t.Helper()
	dept := &core.Department{Name: name}
	require.NoError(t, store.CreateDepartment(context.Background(), dept))
	return dept
}

func seedUser(t *testing.T, store *MemoryStore, name string, departmentID int64) *core.User {
	t.Helper()
	user := &core.User{Name: name, Email: name + "@smx.com", DepartmentID: departmentID, Age: 30}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestMemoryStoreDepartmentCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	dept := seedDepartment(t, store, "Finance")
	assert.Equal(t, int64(1), dept.ID)

	got, err := store.GetDepartment(ctx, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Finance", got.Name)

	dept.Name = "Accounting"
	require.NoError(t, store.UpdateDepartment(ctx, dept))
	got, err = store.GetDepartment(ctx, dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Accounting", got.Name)

	require.NoError(t, store.DeleteDepartment(ctx, dept.ID))
	_, err = store.GetDepartment(ctx, dept.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.GetDepartment(ctx, 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, store.UpdateDepartment(ctx, &core.Department{ID: 42}), core.ErrNotFound)
	assert.ErrorIs(t, store.DeleteDepartment(ctx, 42), core.ErrNotFound)

	_, err = store.GetUser(ctx, 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, store.UpdateUser(ctx, &core.User{ID: 42}), core.ErrNotFound)
	assert.ErrorIs(t, store.DeleteUser(ctx, 42), core.ErrNotFound)

	_, err = store.GetEmailLog(ctx, 42)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, store.UpdateEmailLog(ctx, &core.EmailLog{ID: 42}), core.ErrNotFound)
	assert.ErrorIs(t, store.DeleteEmailLog(ctx, 42), core.ErrNotFound)
}

func TestMemoryStoreListUsersFiltersByDepartment(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	finance := seedDepartment(t, store, "Finance")
	it := seedDepartment(t, store, "IT")
	alice := seedUser(t, store, "alice", finance.ID)
	seedUser(t, store, "bob", it.ID)
	carol := seedUser(t, store, "carol", finance.ID)

	all, err := store.ListUsers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := store.ListUsers(ctx, finance.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, alice.ID, filtered[0].ID)
	assert.Equal(t, carol.ID, filtered[1].ID)
}

func TestMemoryStoreEmailLogUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	dept := seedDepartment(t, store, "HR")
	user := seedUser(t, store, "dave", dept.ID)

	log := &core.EmailLog{
		UserID:       user.ID,
		Subject:      "Important Notice",
		Body:         "Please review the attached information.",
		TemplateType: core.TemplateUrgentAction,
		SentAt:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateEmailLog(ctx, log))
	require.Equal(t, int64(1), log.ID)

	clickedAt := log.SentAt.Add(time.Hour)
	log.Clicked = true
	log.ClickedAt = &clickedAt
	require.NoError(t, store.UpdateEmailLog(ctx, log))

	got, err := store.GetEmailLog(ctx, log.ID)
	require.NoError(t, err)
	assert.True(t, got.Clicked)
	require.NotNil(t, got.ClickedAt)
	assert.Equal(t, clickedAt, *got.ClickedAt)
}

func TestMemoryStoreListEmailLogFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	finance := seedDepartment(t, store, "Finance")
	it := seedDepartment(t, store, "IT")
	alice := seedUser(t, store, "alice", finance.ID)
	bob := seedUser(t, store, "bob", it.ID)

	sentAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for _, userID := range []int64{alice.ID, alice.ID, bob.ID} {
		require.NoError(t, store.CreateEmailLog(ctx, &core.EmailLog{UserID: userID, SentAt: sentAt}))
	}

	all, err := store.ListEmailLogs(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byUser, err := store.ListEmailLogs(ctx, alice.ID, 0)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byDept, err := store.ListEmailLogs(ctx, 0, it.ID)
	require.NoError(t, err)
	require.Len(t, byDept, 1)
	assert.Equal(t, bob.ID, byDept[0].UserID)
}

func TestMemoryStoreIDsAreSequential(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := &core.Department{Name: "A"}
	second := &core.Department{Name: "B"}
	require.NoError(t, store.CreateDepartment(ctx, first))
	require.NoError(t, store.CreateDepartment(ctx, second))
	require.NoError(t, store.DeleteDepartment(ctx, first.ID))

	third := &core.Department{Name: "C"}
	require.NoError(t, store.CreateDepartment(ctx, third))
	assert.Equal(t, int64(3), third.ID)

	depts, err := store.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, second.ID, depts[0].ID)
	assert.Equal(t, third.ID, depts[1].ID)
}
