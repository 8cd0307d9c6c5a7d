package audit

type ListAuditLogsQuery struct {
	ActorID      string `form:"actor_id"`
	Action       string `form:"action"`
	ResourceType string `form:"resource_type"`
	ResourceID   string `form:"resource_id"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

type AuditLogResponse struct {
	ID           string         `json:"id"`
	EventID      string         `json:"event_id"`
	ActorID      string         `json:"actor_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   *string        `json:"resource_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	OccurredAt   string         `json:"occurred_at"`
}
