package changerequest

import (
	"context"
	"database/sql"

	"go-orgstructure/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status      string
	RequestedBy string
}

//go:generate mockgen -source=changerequest_repo.go -destination=mock/changerequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cr *StructureChangeRequest) error
	FindAll(ctx context.Context, filter ListFilter) ([]StructureChangeRequest, error)
	FindByID(ctx context.Context, id string) (*StructureChangeRequest, error)
	Update(ctx context.Context, cr *StructureChangeRequest) error
	ExistsNonTerminal(ctx context.Context, requesterID, requestType string, targetDepartmentID, targetPositionID *uuid.UUID) (bool, error)
	CreateApproval(ctx context.Context, a *StructureApproval) error
	FindApprovalsByRequest(ctx context.Context, requestID string) ([]StructureApproval, error)
	HasDecidedApproval(ctx context.Context, requestID, approverID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, cr *StructureChangeRequest) error {
	return r.db.WithContext(ctx).Create(cr).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]StructureChangeRequest, error) {
	q := r.db.WithContext(ctx).Model(&StructureChangeRequest{})

	if filter.Status != "" {
		q = q.Where("UPPER(status) = UPPER(?)", filter.Status)
	}
	if filter.RequestedBy != "" {
		q = q.Where("requested_by_employee_id = ?", filter.RequestedBy)
	}

	var requests []StructureChangeRequest
	err := q.Order("submitted_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*StructureChangeRequest, error) {
	var cr StructureChangeRequest
	err := r.db.WithContext(ctx).
		First(&cr, "id = ?", id).Error
	return &cr, err
}

func (r *repository) Update(ctx context.Context, cr *StructureChangeRequest) error {
	return r.db.WithContext(ctx).Save(cr).Error
}

// ExistsNonTerminal checks for an open request by the same requester, of the
// same type, against the same target. Legacy PENDING rows count as open.
func (r *repository) ExistsNonTerminal(
	ctx context.Context,
	requesterID, requestType string,
	targetDepartmentID, targetPositionID *uuid.UUID,
) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&StructureChangeRequest{}).
		Where("requested_by_employee_id = ? AND request_type = ?", requesterID, requestType).
		Where("UPPER(status) NOT IN ?", []string{StatusApproved, StatusRejected, StatusCanceled})

	if targetDepartmentID != nil {
		q = q.Where("target_department_id = ?", targetDepartmentID.String())
	} else {
		q = q.Where("target_department_id IS NULL")
	}
	if targetPositionID != nil {
		q = q.Where("target_position_id = ?", targetPositionID.String())
	} else {
		q = q.Where("target_position_id IS NULL")
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateApproval(ctx context.Context, a *StructureApproval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindApprovalsByRequest(ctx context.Context, requestID string) ([]StructureApproval, error) {
	var approvals []StructureApproval
	err := r.db.WithContext(ctx).
		Where("change_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&approvals).Error
	return approvals, err
}

func (r *repository) HasDecidedApproval(ctx context.Context, requestID, approverID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&StructureApproval{}).
		Where("change_request_id = ? AND approver_employee_id = ? AND decision <> ?",
			requestID, approverID, DecisionPending).
		Count(&count).Error
	return count > 0, err
}
