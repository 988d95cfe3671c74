package directory

import (
	"context"
	"encoding/json"
	"time"

	"go-orgstructure/internal/events"
	"go-orgstructure/internal/messaging/kafka"

	"github.com/google/uuid"
)

// Sync keeps the employee directory's denormalized primary position in step
// with assignment changes. Eventually consistent, invoked best-effort after
// the assignment commits.
type Sync interface {
	UpdatePrimaryPosition(ctx context.Context, employeeID, positionID, departmentID string) error
	ClearPrimaryPosition(ctx context.Context, employeeID string) error
}

type noopSync struct{}

func NewNoopSync() Sync {
	return noopSync{}
}

func (noopSync) UpdatePrimaryPosition(context.Context, string, string, string) error { return nil }
func (noopSync) ClearPrimaryPosition(context.Context, string) error                  { return nil }

type outboxSync struct {
	outbox kafka.OutboxRepository
}

func NewOutboxSync(outbox kafka.OutboxRepository) Sync {
	return &outboxSync{outbox: outbox}
}

func (s *outboxSync) UpdatePrimaryPosition(
	ctx context.Context,
	employeeID, positionID, departmentID string,
) error {
	return s.stage(ctx, events.PrimaryPositionChangedEvent{
		EventType:    "directory.primary_position.updated",
		EmployeeID:   employeeID,
		PositionID:   positionID,
		DepartmentID: departmentID,
		OccurredAt:   time.Now().UTC(),
	})
}

func (s *outboxSync) ClearPrimaryPosition(ctx context.Context, employeeID string) error {
	return s.stage(ctx, events.PrimaryPositionChangedEvent{
		EventType:  "directory.primary_position.cleared",
		EmployeeID: employeeID,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *outboxSync) stage(ctx context.Context, event events.PrimaryPositionChangedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "employee",
		AggregateID:   event.EmployeeID,
		EventType:     event.EventType,
		Topic:         events.DirectorySyncTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
