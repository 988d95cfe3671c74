package notification

import (
	"context"
	"encoding/json"
	"time"

	"go-orgstructure/internal/events"
	"go-orgstructure/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is the outbound notification sink. Delivery is fire-and-forget:
// callers wrap every invocation in BestEffort so a notification failure can
// never fail the primary mutation.
type Notifier interface {
	NotifyStructureChanged(ctx context.Context, changeType, targetName string, affectedEmployeeIDs []string) error
	NotifyChangeRequestSubmitted(ctx context.Context, e events.ChangeRequestSubmittedEvent) error
	NotifyChangeRequestProcessed(ctx context.Context, e events.ChangeRequestProcessedEvent) error
}

// BestEffort logs a failed side-effect call and drops it.
func BestEffort(logger *zap.Logger, op string, err error) {
	if err != nil {
		logger.Warn("best-effort side effect failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

type noopNotifier struct{}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) NotifyStructureChanged(context.Context, string, string, []string) error {
	return nil
}

func (noopNotifier) NotifyChangeRequestSubmitted(context.Context, events.ChangeRequestSubmittedEvent) error {
	return nil
}

func (noopNotifier) NotifyChangeRequestProcessed(context.Context, events.ChangeRequestProcessedEvent) error {
	return nil
}

// outboxNotifier stages events in the outbox table; the producer worker
// publishes them to Kafka with retry bookkeeping.
type outboxNotifier struct {
	outbox kafka.OutboxRepository
}

func NewOutboxNotifier(outbox kafka.OutboxRepository) Notifier {
	return &outboxNotifier{outbox: outbox}
}

func (n *outboxNotifier) NotifyStructureChanged(
	ctx context.Context,
	changeType, targetName string,
	affectedEmployeeIDs []string,
) error {
	event := events.StructureChangedEvent{
		EventType:           "structure.changed",
		ChangeType:          changeType,
		TargetName:          targetName,
		AffectedEmployeeIDs: affectedEmployeeIDs,
		OccurredAt:          time.Now().UTC(),
	}
	return n.stage(ctx, "structure", targetName, event.EventType, events.StructureChangedTopic, event)
}

func (n *outboxNotifier) NotifyChangeRequestSubmitted(
	ctx context.Context,
	e events.ChangeRequestSubmittedEvent,
) error {
	e.EventType = "change_request.submitted"
	e.OccurredAt = time.Now().UTC()
	return n.stage(ctx, "change_request", e.RequestID, e.EventType, events.ChangeRequestTopic, e)
}

func (n *outboxNotifier) NotifyChangeRequestProcessed(
	ctx context.Context,
	e events.ChangeRequestProcessedEvent,
) error {
	e.EventType = "change_request.processed"
	e.OccurredAt = time.Now().UTC()
	return n.stage(ctx, "change_request", e.RequestID, e.EventType, events.ChangeRequestTopic, e)
}

func (n *outboxNotifier) stage(
	ctx context.Context,
	aggregateType, aggregateID, eventType, topic string,
	payload any,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}
