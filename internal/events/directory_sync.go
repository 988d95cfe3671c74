package events

import "time"

const DirectorySyncTopic = "org.directory.sync.v1"

// PrimaryPositionChangedEvent keeps the employee directory's denormalized
// "current position" in sync. PositionID/DepartmentID empty means cleared.
type PrimaryPositionChangedEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   string    `json:"employee_id"`
	PositionID   string    `json:"position_id,omitempty"`
	DepartmentID string    `json:"department_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
