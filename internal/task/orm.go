package task

import (
	"time"

	"github.com/Oniqq60/staff_control/internal/auth"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task has no workflow: any status may follow any other.
type Task struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      *string   `gorm:"type:text" json:"description"`
	Status           Status    `gorm:"type:varchar(20);not null;default:todo;check:chk_tasks_status,status IN ('todo','in_progress','done');index:idx_tasks_status;index:idx_tasks_assignee_status,priority:2;index:idx_tasks_status_priority,priority:1;index:idx_tasks_creator_status,priority:2" json:"status"`
	Priority         Priority  `gorm:"type:varchar(20);not null;default:medium;check:chk_tasks_priority,priority IN ('low','medium','high');index:idx_tasks_priority;index:idx_tasks_assignee_priority,priority:2;index:idx_tasks_status_priority,priority:2" json:"priority"`
	DueDate          *Date     `gorm:"type:date;index:idx_tasks_due_date;index:idx_tasks_assignee_due_date,priority:2" json:"due_date"`
	AssignedToUserID int64     `gorm:"not null;index:idx_tasks_assignee_status,priority:1;index:idx_tasks_assignee_priority,priority:1;index:idx_tasks_assignee_due_date,priority:1" json:"assigned_to_user_id"`
	CreatedByUserID  int64     `gorm:"not null;index:idx_tasks_creator_status,priority:1" json:"created_by_user_id"`
	CreatedAt        time.Time `gorm:"not null;index:idx_tasks_created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`

	Assignee auth.User `gorm:"foreignKey:AssignedToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Creator  auth.User `gorm:"foreignKey:CreatedByUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// Owners returns the users allowed to see and change the task.
func (t Task) Owners() []int64 {
	return []int64{t.AssignedToUserID, t.CreatedByUserID}
}
