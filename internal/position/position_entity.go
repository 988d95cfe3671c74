package position

import (
	"time"

	"github.com/google/uuid"
)

type Position struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Code                string              `gorm:"size:20;not null;uniqueIndex:uq_positions_code"`
	Title               string              `gorm:"size:255;not null"`
	DepartmentID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	Department          *PositionDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
	ReportsToPositionID *uuid.UUID          `gorm:"type:uuid;index"`
	IsActive            bool                `gorm:"not null;default:true"`
	CreatedAt           time.Time           `gorm:"autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"autoUpdateTime"`
}

type PositionDepartment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"column:name"`
	IsActive bool      `gorm:"column:is_active"`
}

func (PositionDepartment) TableName() string {
	return "departments"
}
