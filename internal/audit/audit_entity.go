package audit

import (
	"time"

	"github.com/google/uuid"
)

// StructureChangeLog is append-only. Rows are never updated or deleted; the
// repository deliberately exposes no mutation beyond Create.
type StructureChangeLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Action         string     `gorm:"type:varchar(60);not null"`
	EntityType     string     `gorm:"type:varchar(40);not null;index:idx_change_logs_entity"`
	EntityID       string     `gorm:"type:varchar(64);not null;index:idx_change_logs_entity"`
	PerformedBy    *uuid.UUID `gorm:"type:uuid"` // nil for system-triggered changes
	Summary        string     `gorm:"type:text"`
	BeforeSnapshot []byte     `gorm:"type:jsonb"`
	AfterSnapshot  []byte     `gorm:"type:jsonb"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

func (StructureChangeLog) TableName() string {
	return "structure_change_logs"
}
