package audit

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_audit_logs_event"`
	ActorID      uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_logs_actor"`
	Action       string    `gorm:"type:varchar(60);not null;index:idx_audit_logs_action"`
	ResourceType string    `gorm:"type:varchar(60);not null"`
	ResourceID   *string   `gorm:"type:varchar(64)"`
	Details      []byte    `gorm:"type:jsonb"`
	OccurredAt   time.Time `gorm:"not null;index:idx_audit_logs_occurred"`
	CreatedAt    time.Time
}
