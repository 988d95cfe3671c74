package events

import "time"

const ChangeRequestTopic = "org.change_request.lifecycle.v1"

type ChangeRequestSubmittedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	RequestedBy   string    `json:"requested_by"`
	RequestType   string    `json:"request_type"`
	TargetID      string    `json:"target_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type ChangeRequestProcessedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	RequestedBy   string    `json:"requested_by"`
	Status        string    `json:"status"`
	DecidedBy     string    `json:"decided_by,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
