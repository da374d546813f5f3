package task

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrUnknownUser = errors.New("referenced user does not exist")
)

type Filter struct {
	Status           *Status
	AssignedToUserID *int64
	CreatedByUserID  *int64
	Limit            int
	Offset           int
}

// Patch lists the columns to change. The Clear flags set the nullable
// columns to NULL and win over a value.
type Patch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *Status
	Priority         *Priority
	DueDate          *Date
	ClearDueDate     bool
	AssignedToUserID *int64
}

type Repository interface {
	Create(ctx context.Context, t *Task) error
	List(ctx context.Context, f Filter) ([]Task, int64, error)
	GetByID(ctx context.Context, id int64) (Task, error)
	Update(ctx context.Context, id int64, p Patch) (Task, error)
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, t *Task) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error)
}

func (r *taskRepository) List(ctx context.Context, f Filter) ([]Task, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Task{}).Scopes(f.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := make([]Task, 0, f.Limit)
	err := r.db.WithContext(ctx).
		Scopes(f.scope).
		Order("created_at DESC").
		Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// scope applies the same conditions to the count and the page query.
func (f Filter) scope(tx *gorm.DB) *gorm.DB {
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}
	if f.AssignedToUserID != nil {
		tx = tx.Where("assigned_to_user_id = ?", *f.AssignedToUserID)
	}
	if f.CreatedByUserID != nil {
		tx = tx.Where("created_by_user_id = ?", *f.CreatedByUserID)
	}
	return tx
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (Task, error) {
	var t Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return t, translate(err)
}

func (r *taskRepository) Update(ctx context.Context, id int64, p Patch) (Task, error) {
	updateMap := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if p.Title != nil {
		updateMap["title"] = *p.Title
	}
	switch {
	case p.ClearDescription:
		updateMap["description"] = nil
	case p.Description != nil:
		updateMap["description"] = *p.Description
	}
	if p.Status != nil {
		updateMap["status"] = *p.Status
	}
	if p.Priority != nil {
		updateMap["priority"] = *p.Priority
	}
	switch {
	case p.ClearDueDate:
		updateMap["due_date"] = nil
	case p.DueDate != nil:
		updateMap["due_date"] = *p.DueDate
	}
	if p.AssignedToUserID != nil {
		updateMap["assigned_to_user_id"] = *p.AssignedToUserID
	}

	res := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", id).Updates(updateMap)
	if res.Error != nil {
		return Task{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return Task{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrUnknownUser
	default:
		return err
	}
}
