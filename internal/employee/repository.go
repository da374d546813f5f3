package employee

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("employee not found")
	ErrDuplicate   = errors.New("employee already exists for user")
	ErrUnknownUser = errors.New("referenced user does not exist")
)

// Patch lists the columns to change; nil fields are left untouched.
type Patch struct {
	UserID     *int64
	FirstName  *string
	LastName   *string
	Department *string
	Position   *string
}

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	List(ctx context.Context, limit, offset int) ([]Employee, int64, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetByUserID(ctx context.Context, userID int64) (Employee, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, id int64, p Patch) (Employee, error)
	Delete(ctx context.Context, id int64) error
}

type employeeRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *Employee) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(e).Error)
}

func (r *employeeRepository) List(ctx context.Context, limit, offset int) ([]Employee, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Employee{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	employees := make([]Employee, 0, limit)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return e, translate(err)
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID int64) (Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&e).Error
	return e, translate(err)
}

func (r *employeeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update is a single conditional statement; zero affected rows means the
// row vanished, whatever an earlier existence check said.
func (r *employeeRepository) Update(ctx context.Context, id int64, p Patch) (Employee, error) {
	updateMap := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if p.UserID != nil {
		updateMap["user_id"] = *p.UserID
	}
	if p.FirstName != nil {
		updateMap["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		updateMap["last_name"] = *p.LastName
	}
	if p.Department != nil {
		updateMap["department"] = *p.Department
	}
	if p.Position != nil {
		updateMap["position"] = *p.Position
	}

	res := r.db.WithContext(ctx).Model(&Employee{}).Where("id = ?", id).Updates(updateMap)
	if res.Error != nil {
		return Employee{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return Employee{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Employee{})
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
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrUnknownUser
	default:
		return err
	}
}
