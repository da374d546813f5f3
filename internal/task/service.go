package task

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/dto"
)

const (
	msgNotFound        = "Task not found"
	msgInvalidID       = "Valid task ID is required"
	msgInvalidStatus   = "Invalid status. Must be one of: todo, in_progress, done"
	msgInvalidPriority = "Invalid priority. Must be one of: low, medium, high"
	msgInvalidAssignee = "Valid assigned_to_user_id is required"
	msgUnknownAssignee = "Assigned user does not exist"
	msgInvalidCreator  = "Valid created_by_user_id is required"
)

type UserLookup interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CreateInput leaves Status, Priority and AssignedToUserID nil to take the
// defaults: todo, medium and the creator.
type CreateInput struct {
	Title            string
	Description      *string
	Status           *Status
	Priority         *Priority
	DueDate          *Date
	AssignedToUserID *int64
	CreatedByUserID  int64
}

type Page struct {
	Items      []Task
	Pagination dto.Pagination
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (Task, error)
	List(ctx context.Context, f Filter) (Page, error)
	GetByID(ctx context.Context, id int64) (Task, error)
	Update(ctx context.Context, id int64, p Patch, actorID int64) (Task, error)
	Delete(ctx context.Context, id int64, actorID int64) error
}

type taskService struct {
	repo   Repository
	users  UserLookup
	events Publisher
	log    *zap.Logger
}

func NewService(repo Repository, users UserLookup, events Publisher, log *zap.Logger) Service {
	if events == nil {
		events = NopPublisher{}
	}
	return &taskService{
		repo:   repo,
		users:  users,
		events: events,
		log:    log,
	}
}

func (s *taskService) Create(ctx context.Context, in CreateInput) (Task, error) {
	s.log.Debug("creating task", zap.Int64("createdBy", in.CreatedByUserID))

	if in.CreatedByUserID <= 0 {
		return Task{}, apperr.Validation(msgInvalidCreator)
	}
	if strings.TrimSpace(in.Title) == "" {
		s.log.Warn("task creation rejected: missing title", zap.Int64("createdBy", in.CreatedByUserID))
		return Task{}, apperr.Validation("title is required")
	}

	t := Task{
		Title:            in.Title,
		Description:      in.Description,
		Status:           StatusTodo,
		Priority:         PriorityMedium,
		DueDate:          in.DueDate,
		AssignedToUserID: in.CreatedByUserID,
		CreatedByUserID:  in.CreatedByUserID,
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.AssignedToUserID != nil {
		t.AssignedToUserID = *in.AssignedToUserID
	}

	if err := s.checkEnums(&t.Status, &t.Priority); err != nil {
		return Task{}, err
	}
	if err := s.checkAssignee(ctx, t.AssignedToUserID); err != nil {
		return Task{}, err
	}

	if err := s.repo.Create(ctx, &t); err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return Task{}, apperr.Validation(msgUnknownAssignee)
		}
		return Task{}, s.internal("create task failed", err)
	}

	s.log.Info("task created",
		zap.Int64("taskId", t.ID),
		zap.Int64("assignedTo", t.AssignedToUserID),
		zap.Int64("createdBy", t.CreatedByUserID),
	)
	s.publish(ctx, newEvent(EventCreated, t, in.CreatedByUserID))
	return t, nil
}

func (s *taskService) List(ctx context.Context, f Filter) (Page, error) {
	if f.Limit <= 0 {
		f.Limit = dto.DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Status != nil && !f.Status.Valid() {
		return Page{}, apperr.Validation(msgInvalidStatus)
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, s.internal("list tasks failed", err)
	}

	p := Page{Items: items, Pagination: dto.NewPagination(total, f.Limit, f.Offset)}
	s.log.Info("tasks fetched",
		zap.Int("count", len(items)),
		zap.Int64("total", total),
		zap.Int("page", p.Pagination.Page),
	)
	return p, nil
}

func (s *taskService) GetByID(ctx context.Context, id int64) (Task, error) {
	if id <= 0 {
		return Task{}, apperr.Validation(msgInvalidID)
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Task{}, apperr.NotFound(msgNotFound)
		}
		return Task{}, s.internal("get task failed", err)
	}
	return t, nil
}

func (s *taskService) Update(ctx context.Context, id int64, p Patch, actorID int64) (Task, error) {
	s.log.Debug("updating task", zap.Int64("taskId", id))

	if id <= 0 {
		return Task{}, apperr.Validation(msgInvalidID)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Task{}, apperr.Validation("title is required")
	}
	if err := s.checkEnums(p.Status, p.Priority); err != nil {
		return Task{}, err
	}
	if p.AssignedToUserID != nil {
		if err := s.checkAssignee(ctx, *p.AssignedToUserID); err != nil {
			return Task{}, err
		}
	}

	t, err := s.repo.Update(ctx, id, p)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			s.log.Warn("task update rejected: not found", zap.Int64("taskId", id))
			return Task{}, apperr.NotFound(msgNotFound)
		case errors.Is(err, ErrUnknownUser):
			return Task{}, apperr.Validation(msgUnknownAssignee)
		}
		return Task{}, s.internal("update task failed", err)
	}

	s.log.Info("task updated", zap.Int64("taskId", id), zap.String("status", string(t.Status)))
	s.publish(ctx, newEvent(EventUpdated, t, actorID))
	return t, nil
}

func (s *taskService) Delete(ctx context.Context, id int64, actorID int64) error {
	s.log.Debug("deleting task", zap.Int64("taskId", id))

	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return s.internal("delete task failed", err)
	}

	s.log.Info("task deleted", zap.Int64("taskId", id))
	s.publish(ctx, newEvent(EventDeleted, t, actorID))
	return nil
}

func (s *taskService) checkEnums(status *Status, priority *Priority) error {
	if status != nil && !status.Valid() {
		return apperr.Validation(msgInvalidStatus)
	}
	if priority != nil && !priority.Valid() {
		return apperr.Validation(msgInvalidPriority)
	}
	return nil
}

func (s *taskService) checkAssignee(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return apperr.Validation(msgInvalidAssignee)
	}
	ok, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return s.internal("user lookup failed", err)
	}
	if !ok {
		s.log.Warn("task rejected: assignee does not exist", zap.Int64("assignedTo", userID))
		return apperr.Validation(msgUnknownAssignee)
	}
	return nil
}

// publish never fails the request.
func (s *taskService) publish(ctx context.Context, event TaskEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Error("failed to publish task event",
			zap.Int64("taskId", event.TaskID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func (s *taskService) internal(msg string, err error) error {
	s.log.Error(msg, zap.Error(err))
	return apperr.Internal(err)
}
