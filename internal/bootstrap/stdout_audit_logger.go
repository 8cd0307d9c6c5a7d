package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

// StdoutAuditLogger records process-level audit entries on the shared zap
// logger. Domain actions go through the outbox pipeline instead; this one
// covers lifecycle events that happen outside a request.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("audit").Info("audit event",
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
