package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/database/dbtest"
	"github.com/Oniqq60/staff_control/internal/employee"
	"github.com/Oniqq60/staff_control/internal/task"
)

func TestMigrateCreatesIndexes(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, Migrate(db))

	m := db.Migrator()
	for _, table := range []string{"users", "employees", "tasks"} {
		assert.True(t, m.HasTable(table), table)
	}

	indexes := map[any][]string{
		&auth.User{}:         {"idx_users_email", "idx_users_email_role", "idx_users_created_at"},
		&employee.Employee{}: {"idx_employees_user_id", "idx_employees_department", "idx_employees_position", "idx_employees_user_department", "idx_employees_department_position", "idx_employees_name", "idx_employees_created_at"},
		&task.Task{}:         {"idx_tasks_status", "idx_tasks_priority", "idx_tasks_assignee_status", "idx_tasks_assignee_priority", "idx_tasks_status_priority", "idx_tasks_due_date", "idx_tasks_assignee_due_date", "idx_tasks_created_at", "idx_tasks_creator_status"},
	}
	for model, names := range indexes {
		for _, name := range names {
			assert.True(t, m.HasIndex(model, name), name)
		}
	}

	// idempotent
	require.NoError(t, Migrate(db))
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	require.NoError(t, Migrate(db))

	// twice: the second run replaces the first
	require.NoError(t, Seed(ctx, db, bcrypt.MinCost))
	require.NoError(t, Seed(ctx, db, bcrypt.MinCost))

	var users []auth.User
	require.NoError(t, db.Order("id").Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, SeedAdminEmail, users[0].Email)
	assert.Equal(t, auth.RoleAdmin, users[0].Role)
	assert.NoError(t, auth.CheckPassword(users[0].PasswordHash, SeedAdminPassword))
	assert.Equal(t, auth.RoleEmployee, users[1].Role)

	var employees int64
	require.NoError(t, db.Model(&employee.Employee{}).Count(&employees).Error)
	assert.Equal(t, int64(2), employees)

	var tasks []task.Task
	require.NoError(t, db.Order("id").Find(&tasks).Error)
	require.Len(t, tasks, 2)
	assert.Equal(t, users[1].ID, tasks[0].AssignedToUserID)
	assert.Equal(t, users[0].ID, tasks[0].CreatedByUserID)
	require.NotNil(t, tasks[0].DueDate)
}

func TestPing(t *testing.T) {
	db := dbtest.Open(t)
	assert.NoError(t, Ping(context.Background(), db))
}
