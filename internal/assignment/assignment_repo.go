package assignment

import (
	"context"
	"database/sql"

	"go-orgstructure/internal/shared/connection"

	"gorm.io/gorm"
)

type ListFilter struct {
	EmployeeID string
	ActiveOnly bool
}

//go:generate mockgen -source=assignment_repo.go -destination=mock/assignment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *PositionAssignment) error
	FindAll(ctx context.Context, filter ListFilter) ([]PositionAssignment, error)
	FindByID(ctx context.Context, id string) (*PositionAssignment, error)
	FindActiveByEmployee(ctx context.Context, employeeID string) (*PositionAssignment, error)
	Update(ctx context.Context, a *PositionAssignment) error
	CountActiveByPosition(ctx context.Context, positionID string) (int64, error)
	LockEmployee(ctx context.Context, employeeID string) error
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

func (r *repository) Create(ctx context.Context, a *PositionAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]PositionAssignment, error) {
	q := r.db.WithContext(ctx).Model(&PositionAssignment{})

	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.ActiveOnly {
		q = q.Where("end_date IS NULL OR end_date > now()")
	}

	var assignments []PositionAssignment
	err := q.Order("start_date DESC").Find(&assignments).Error
	return assignments, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*PositionAssignment, error) {
	var a PositionAssignment
	err := r.db.WithContext(ctx).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID string) (*PositionAssignment, error) {
	var a PositionAssignment
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND (end_date IS NULL OR end_date > now())", employeeID).
		Order("start_date DESC").
		First(&a).Error
	return &a, err
}

func (r *repository) Update(ctx context.Context, a *PositionAssignment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) CountActiveByPosition(ctx context.Context, positionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PositionAssignment{}).
		Where("position_id = ? AND (end_date IS NULL OR end_date > now())", positionID).
		Count(&count).Error
	return count, err
}

// LockEmployee takes a transaction-scoped advisory lock keyed on the
// employee id. Two concurrent assigns for the same employee serialize here,
// so both cannot read "no active assignment" and double-insert; the partial
// unique index uq_assignments_one_open is the storage-level backstop.
func (r *repository) LockEmployee(ctx context.Context, employeeID string) error {
	return r.db.WithContext(ctx).Exec(
		"SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", employeeID,
	).Error
}
