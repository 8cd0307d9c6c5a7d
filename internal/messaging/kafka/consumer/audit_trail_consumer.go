package consumer

import (
	"context"
	"encoding/json"

	"dataguard-hris/internal/audit"
	"dataguard-hris/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeAuditActions drains hr.audit.action.v1 into audit_logs. Duplicate
// deliveries are handled by the service, so every record is safe to retry.
func ConsumeAuditActions(
	ctx context.Context,
	reader *kafkago.Reader,
	auditService audit.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.audit_action")
	log.Info("audit action consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("audit action consumer stopped")
				return
			}
			log.Error("fetch audit action message failed", zap.Error(err))
			continue
		}

		var event events.AuditActionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode audit action event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := auditService.Persist(ctx, event); err != nil {
			log.Error("persist audit action failed",
				zap.String("event_id", event.EventID),
				zap.String("action", event.Action),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit audit action message failed", zap.Error(err))
			continue
		}

		log.Debug("audit action persisted",
			zap.String("event_id", event.EventID),
			zap.String("action", event.Action),
		)
	}
}
