package audit

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	EntityType string
	EntityID   string
	Limit      int
}

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, entry *StructureChangeLog) error
	List(ctx context.Context, filter ListFilter) ([]StructureChangeLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *StructureChangeLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]StructureChangeLog, error) {
	q := r.db.WithContext(ctx).Model(&StructureChangeLog{})

	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []StructureChangeLog
	err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
