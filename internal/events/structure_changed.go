package events

import "time"

const StructureChangedTopic = "org.structure.changed.v1"

type StructureChangedEvent struct {
	EventType           string    `json:"event_type"`
	ChangeType          string    `json:"change_type"`
	TargetName          string    `json:"target_name"`
	AffectedEmployeeIDs []string  `json:"affected_employee_ids,omitempty"`
	OccurredAt          time.Time `json:"occurred_at"`
}
