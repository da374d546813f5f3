package employee

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/dto"
)

const (
	msgNotFound     = "Employee not found"
	msgInvalidID    = "Valid employee ID is required"
	msgUnknownUser  = "User does not exist"
	msgDuplicateRec = "Employee record already exists for this user"
)

// UserLookup is the slice of the user repository the service needs.
type UserLookup interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type CreateInput struct {
	UserID     int64
	FirstName  string
	LastName   string
	Department *string
	Position   *string
}

type Page struct {
	Items      []Employee
	Pagination dto.Pagination
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (Employee, error)
	List(ctx context.Context, limit, offset int) (Page, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	Update(ctx context.Context, id int64, p Patch) (Employee, error)
	Delete(ctx context.Context, id int64) error
}

type employeeService struct {
	repo  Repository
	users UserLookup
	log   *zap.Logger
}

func NewService(repo Repository, users UserLookup, log *zap.Logger) Service {
	return &employeeService{
		repo:  repo,
		users: users,
		log:   log,
	}
}

func (s *employeeService) Create(ctx context.Context, in CreateInput) (Employee, error) {
	s.log.Debug("creating employee", zap.Int64("userId", in.UserID))

	if in.UserID <= 0 {
		s.log.Warn("employee creation rejected: invalid user_id", zap.Int64("userId", in.UserID))
		return Employee{}, apperr.Validation("Valid user_id is required")
	}

	exists, err := s.users.ExistsByID(ctx, in.UserID)
	if err != nil {
		return Employee{}, s.internal("user lookup failed", err)
	}
	if !exists {
		s.log.Warn("employee creation rejected: user does not exist", zap.Int64("userId", in.UserID))
		return Employee{}, apperr.Validation(msgUnknownUser)
	}

	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		s.log.Warn("employee creation rejected: missing name", zap.Int64("userId", in.UserID))
		return Employee{}, apperr.Validation("first_name and last_name are required")
	}

	e := Employee{
		UserID:     in.UserID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: in.Department,
		Position:   in.Position,
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		switch {
		case errors.Is(err, ErrDuplicate):
			return Employee{}, apperr.Conflict(msgDuplicateRec)
		case errors.Is(err, ErrUnknownUser):
			return Employee{}, apperr.Validation(msgUnknownUser)
		}
		return Employee{}, s.internal("create employee failed", err)
	}

	s.log.Info("employee created", zap.Int64("employeeId", e.ID), zap.Int64("userId", e.UserID))
	return e, nil
}

func (s *employeeService) List(ctx context.Context, limit, offset int) (Page, error) {
	if limit <= 0 {
		limit = dto.DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return Page{}, s.internal("list employees failed", err)
	}

	p := Page{Items: items, Pagination: dto.NewPagination(total, limit, offset)}
	s.log.Info("employees fetched",
		zap.Int("count", len(items)),
		zap.Int64("total", total),
		zap.Int("page", p.Pagination.Page),
	)
	return p, nil
}

func (s *employeeService) GetByID(ctx context.Context, id int64) (Employee, error) {
	if id <= 0 {
		return Employee{}, apperr.Validation(msgInvalidID)
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Employee{}, apperr.NotFound(msgNotFound)
		}
		return Employee{}, s.internal("get employee failed", err)
	}
	return e, nil
}

func (s *employeeService) Update(ctx context.Context, id int64, p Patch) (Employee, error) {
	s.log.Debug("updating employee", zap.Int64("employeeId", id))

	if id <= 0 {
		return Employee{}, apperr.Validation(msgInvalidID)
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return Employee{}, s.internal("employee lookup failed", err)
	}
	if !exists {
		s.log.Warn("employee update rejected: not found", zap.Int64("employeeId", id))
		return Employee{}, apperr.NotFound(msgNotFound)
	}

	if p.UserID != nil {
		ok, err := s.users.ExistsByID(ctx, *p.UserID)
		if err != nil {
			return Employee{}, s.internal("user lookup failed", err)
		}
		if !ok {
			s.log.Warn("employee update rejected: user does not exist",
				zap.Int64("employeeId", id),
				zap.Int64("userId", *p.UserID),
			)
			return Employee{}, apperr.Validation(msgUnknownUser)
		}
	}

	e, err := s.repo.Update(ctx, id, p)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return Employee{}, apperr.NotFound(msgNotFound)
		case errors.Is(err, ErrDuplicate):
			return Employee{}, apperr.Conflict(msgDuplicateRec)
		case errors.Is(err, ErrUnknownUser):
			return Employee{}, apperr.Validation(msgUnknownUser)
		}
		return Employee{}, s.internal("update employee failed", err)
	}

	s.log.Info("employee updated", zap.Int64("employeeId", id))
	return e, nil
}

func (s *employeeService) Delete(ctx context.Context, id int64) error {
	s.log.Debug("deleting employee", zap.Int64("employeeId", id))

	if id <= 0 {
		return apperr.Validation(msgInvalidID)
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return s.internal("employee lookup failed", err)
	}
	if !exists {
		s.log.Warn("employee deletion rejected: not found", zap.Int64("employeeId", id))
		return apperr.NotFound(msgNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return s.internal("delete employee failed", err)
	}

	s.log.Info("employee deleted", zap.Int64("employeeId", id))
	return nil
}

func (s *employeeService) internal(msg string, err error) error {
	s.log.Error(msg, zap.Error(err))
	return apperr.Internal(err)
}
