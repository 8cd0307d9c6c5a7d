package events

import "time"

const AuditActionTopic = "hr.audit.action.v1"

type AuditActionEvent struct {
	EventType    string         `json:"event_type"`
	EventID      string         `json:"event_id"`
	RequestID    string         `json:"request_id,omitempty"`
	ActorID      string         `json:"actor_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}
