package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/employee"
	"github.com/Oniqq60/staff_control/internal/task"
)

const (
	SeedAdminEmail       = "admin@company.com"
	SeedAdminPassword    = "AdminPassword123"
	SeedEmployeeEmail    = "employee@company.com"
	SeedEmployeePassword = "EmployeePassword123"
)

// Seed wipes all rows and loads a demo admin and employee with one employee
// record each and two tasks.
func Seed(ctx context.Context, db *gorm.DB, bcryptCost int) error {
	adminHash, err := auth.HashPassword(SeedAdminPassword, bcryptCost)
	if err != nil {
		return err
	}
	employeeHash, err := auth.HashPassword(SeedEmployeePassword, bcryptCost)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// children first
		for _, m := range []any{&task.Task{}, &employee.Employee{}, &auth.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}

		admin := auth.User{Email: SeedAdminEmail, PasswordHash: adminHash, Role: auth.RoleAdmin}
		staff := auth.User{Email: SeedEmployeeEmail, PasswordHash: employeeHash, Role: auth.RoleEmployee}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}

		employees := []employee.Employee{
			{UserID: admin.ID, FirstName: "Admin", LastName: "User", Department: strPtr("Management"), Position: strPtr("Administrator")},
			{UserID: staff.ID, FirstName: "Employee", LastName: "User", Department: strPtr("Operations"), Position: strPtr("Staff")},
		}
		if err := tx.Omit("User").Create(&employees).Error; err != nil {
			return err
		}

		now := time.Now()
		inWeek := task.NewDate(now.AddDate(0, 0, 7))
		inThreeDays := task.NewDate(now.AddDate(0, 0, 3))
		tasks := []task.Task{
			{
				Title:            "Complete onboarding",
				Description:      strPtr("Read company policies and complete access setup."),
				Status:           task.StatusTodo,
				Priority:         task.PriorityHigh,
				DueDate:          &inWeek,
				AssignedToUserID: staff.ID,
				CreatedByUserID:  admin.ID,
			},
			{
				Title:            "Review monthly report",
				Description:      strPtr("Check KPIs and send notes to leadership."),
				Status:           task.StatusInProgress,
				Priority:         task.PriorityMedium,
				DueDate:          &inThreeDays,
				AssignedToUserID: admin.ID,
				CreatedByUserID:  admin.ID,
			},
		}
		return tx.Omit("Assignee", "Creator").Create(&tasks).Error
	})
}

func strPtr(s string) *string { return &s }
