package department

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code           string     `gorm:"size:20;not null;uniqueIndex:uq_departments_code"`
	Name           string     `gorm:"size:255;not null;uniqueIndex:uq_departments_name"`
	Description    string     `gorm:"type:text"`
	Budget         float64    `gorm:"type:numeric(14,2);not null;default:0"`
	HeadPositionID *uuid.UUID `gorm:"type:uuid"`
	IsActive       bool       `gorm:"not null;default:true"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`
}
