package changerequest

import (
	"time"

	"github.com/google/uuid"
)

type StructureChangeRequest struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequestNumber         string     `gorm:"size:20;not null;uniqueIndex:uq_change_requests_number"`
	RequestedByEmployeeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_change_requests_requester"`
	RequestType           string     `gorm:"type:varchar(50);not null"`
	TargetDepartmentID    *uuid.UUID `gorm:"type:uuid"`
	TargetPositionID      *uuid.UUID `gorm:"type:uuid"`
	Details               string     `gorm:"type:text"`
	Reason                string     `gorm:"type:text"`
	Status                string     `gorm:"type:varchar(20);not null;default:'SUBMITTED';index:idx_change_requests_status"`
	SubmittedByEmployeeID uuid.UUID  `gorm:"type:uuid;not null"`
	SubmittedAt           time.Time  `gorm:"not null"`
	CreatedAt             time.Time  `gorm:"autoCreateTime"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime"`
}

func (StructureChangeRequest) TableName() string {
	return "structure_change_requests"
}

type StructureApproval struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ChangeRequestID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_approvals_request"`
	ApproverEmployeeID uuid.UUID  `gorm:"type:uuid;not null"`
	Decision           string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	DecidedAt          *time.Time `gorm:""`
	Comments           string     `gorm:"type:text"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
}

func (StructureApproval) TableName() string {
	return "structure_approvals"
}
