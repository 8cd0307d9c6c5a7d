package bootstrap

import "context"

// AuditLog is a lifecycle event record, distinct from the domain audit trail.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
