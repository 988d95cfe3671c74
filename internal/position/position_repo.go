package position

import (
	"context"
	"database/sql"

	"go-orgstructure/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=position_repo.go -destination=mock/position_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, post *Position) error
	FindAll(ctx context.Context) ([]Position, error)
	FindByID(ctx context.Context, id string) (*Position, error)
	Update(ctx context.Context, post *Position) error
	FindActiveSubordinates(ctx context.Context, id string) ([]Position, error)
	CountActiveSubordinates(ctx context.Context, id string) (int64, error)
	CountActiveByDepartment(ctx context.Context, departmentID string) (int64, error)
	IsActiveInDepartment(ctx context.Context, positionID, departmentID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, post *Position) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Position, error) {
	var posts []Position
	err := r.db.WithContext(ctx).
		Preload("Department").
		Order("code ASC").
		Find(&posts).Error
	return posts, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Position, error) {
	var post Position
	err := r.db.WithContext(ctx).
		Preload("Department").
		First(&post, "id = ?", id).Error
	return &post, err
}

func (r *repository) Update(ctx context.Context, post *Position) error {
	// Avoid persisting preloaded Department association on update.
	return r.db.WithContext(ctx).Omit("Department").Save(post).Error
}

func (r *repository) FindActiveSubordinates(ctx context.Context, id string) ([]Position, error) {
	var posts []Position
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("reports_to_position_id = ? AND is_active = true", id).
		Order("code ASC").
		Find(&posts).Error
	return posts, err
}

func (r *repository) CountActiveSubordinates(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Position{}).
		Where("reports_to_position_id = ? AND is_active = true", id).
		Count(&count).Error
	return count, err
}

func (r *repository) CountActiveByDepartment(ctx context.Context, departmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Position{}).
		Where("department_id = ? AND is_active = true", departmentID).
		Count(&count).Error
	return count, err
}

func (r *repository) IsActiveInDepartment(ctx context.Context, positionID, departmentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Position{}).
		Where("id = ? AND department_id = ? AND is_active = true", positionID, departmentID).
		Count(&count).Error
	return count > 0, err
}
