package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/task"
)

const TypeTaskAssigned = "task_assigned"

var (
	ErrEmptyTaskID = errors.New("taskId is required")
	ErrEmptyUserID = errors.New("assignedToUserId is required")
)

// UserLookup resolves the recipient of a notification.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (auth.User, error)
}

type assignmentHandler struct {
	users    UserLookup
	notifier Notifier
	log      *zap.Logger
}

// NewAssignmentHandler notifies the assignee of a created or updated task
// when the change was made by another user.
func NewAssignmentHandler(users UserLookup, notifier Notifier, log *zap.Logger) EventHandler {
	return &assignmentHandler{users: users, notifier: notifier, log: log}
}

func (h *assignmentHandler) HandleEvent(ctx context.Context, event task.TaskEvent) error {
	if event.TaskID <= 0 {
		return ErrEmptyTaskID
	}
	if event.AssignedToUserID <= 0 {
		return ErrEmptyUserID
	}
	if !needsNotification(event) {
		return nil
	}

	user, err := h.users.FindByID(ctx, event.AssignedToUserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			h.log.Warn("assignee no longer exists, skip notification",
				zap.Int64("taskId", event.TaskID),
				zap.Int64("userId", event.AssignedToUserID),
			)
			return nil
		}
		return fmt.Errorf("resolve assignee: %w", err)
	}

	n := Notification{
		Type:           TypeTaskAssigned,
		TaskID:         event.TaskID,
		RecipientID:    user.ID,
		RecipientEmail: user.Email,
		Message:        fmt.Sprintf("Task %d was assigned to you (status: %s)", event.TaskID, event.Status),
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.notifier.Send(ctx, n); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// needsNotification skips deletes and self-assignments.
func needsNotification(e task.TaskEvent) bool {
	switch e.Type {
	case task.EventCreated, task.EventUpdated:
		return e.AssignedToUserID != e.ActorUserID
	}
	return false
}
