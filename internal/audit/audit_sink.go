package audit

import (
	"context"
	"encoding/json"
	"time"

	"dataguard-hris/internal/events"
	"dataguard-hris/internal/messaging/kafka"
	"dataguard-hris/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Record is one action worth keeping a trail of: who did what to which
// resource. Workflows emit records after their own transaction commits.
type Record struct {
	Action       string
	ResourceType string
	ResourceID   string
	ActorID      string
	Details      map[string]any
}

// Sink accepts records fire-and-forget. Implementations must never return
// control-flow-relevant errors to the caller: a lost audit record is logged,
// a blocked workflow is a bug.
//
//go:generate mockgen -source=audit_sink.go -destination=mock/audit_sink_mock.go -package=mock
type Sink interface {
	Write(ctx context.Context, rec Record)
}

type NopSink struct{}

func (NopSink) Write(context.Context, Record) {}

// outboxSink queues records durably in the outbox table; the worker binary
// publishes them to Kafka and the consumer binary lands them in audit_logs.
// Insert failures are swallowed by contract.
type outboxSink struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxSink(outbox kafka.OutboxRepository) Sink {
	return &outboxSink{outbox: outbox, logger: zap.L().Named("audit.sink")}
}

func (s *outboxSink) Write(ctx context.Context, rec Record) {
	event := events.AuditActionEvent{
		EventType:    "audit_action",
		EventID:      uuid.NewString(),
		RequestID:    contextutil.GetRequestID(ctx),
		ActorID:      rec.ActorID,
		Action:       rec.Action,
		ResourceType: rec.ResourceType,
		ResourceID:   rec.ResourceID,
		Details:      rec.Details,
		OccurredAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal audit event failed",
			zap.String("action", rec.Action),
			zap.Error(err),
		)
		return
	}

	err = s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            event.EventID,
		RequestID:     event.RequestID,
		AggregateType: rec.ResourceType,
		AggregateID:   rec.ResourceID,
		EventType:     event.EventType,
		Topic:         events.AuditActionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		// Best effort only. The workflow transition has already committed.
		s.logger.Error("queue audit record failed",
			zap.String("action", rec.Action),
			zap.String("resource_type", rec.ResourceType),
			zap.String("resource_id", rec.ResourceID),
			zap.Error(err),
		)
	}
}
