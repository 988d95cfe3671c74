package assignment

import (
	"time"

	"github.com/google/uuid"
)

// PositionAssignment rows are immutable history once closed: a superseded or
// ended assignment keeps its row forever, only end_date/notes are written at
// close time.
type PositionAssignment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_assignments_employee"`
	PositionID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_assignments_position"`
	DepartmentID    uuid.UUID  `gorm:"type:uuid;not null"` // snapshot of the position's department at assignment time
	StartDate       time.Time  `gorm:"type:date;not null"`
	EndDate         *time.Time `gorm:"type:date"`
	ChangeRequestID *uuid.UUID `gorm:"type:uuid"`
	Reason          string     `gorm:"type:text"`
	Notes           string     `gorm:"type:text"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (PositionAssignment) TableName() string {
	return "position_assignments"
}
