package employee

import (
	"time"

	"github.com/Oniqq60/staff_control/internal/auth"
)

// Employee is the HR record of a user, at most one per user.
type Employee struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_employees_user_id;index:idx_employees_user_department,priority:1" json:"user_id"`
	FirstName  string    `gorm:"size:100;not null;index:idx_employees_name,priority:2" json:"first_name"`
	LastName   string    `gorm:"size:100;not null;index:idx_employees_name,priority:1" json:"last_name"`
	Department *string   `gorm:"size:100;index:idx_employees_department;index:idx_employees_user_department,priority:2;index:idx_employees_department_position,priority:1" json:"department"`
	Position   *string   `gorm:"size:100;index:idx_employees_position;index:idx_employees_department_position,priority:2" json:"position"`
	CreatedAt  time.Time `gorm:"not null;index:idx_employees_created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`

	User auth.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}
