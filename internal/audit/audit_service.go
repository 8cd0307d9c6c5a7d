package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dataguard-hris/internal/events"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, query ListAuditLogsQuery) ([]AuditLogResponse, int64, error)
	Persist(ctx context.Context, event events.AuditActionEvent) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, query ListAuditLogsQuery) ([]AuditLogResponse, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = 20
	}

	logs, total, err := s.repo.List(ctx, ListFilter{
		ActorID:      query.ActorID,
		Action:       query.Action,
		ResourceType: query.ResourceType,
		ResourceID:   query.ResourceID,
		Limit:        query.PageSize,
		Offset:       (query.Page - 1) * query.PageSize,
	})
	if err != nil {
		s.logger.Error("list audit logs failed", zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(logs), total, nil
}

// Persist lands a consumed event in audit_logs. Duplicate deliveries are
// expected with at-least-once consumption and resolve to success via the
// unique index on event_id.
func (s *service) Persist(ctx context.Context, event events.AuditActionEvent) error {
	eventID, err := uuid.Parse(event.EventID)
	if err != nil {
		return errors.New("audit event has invalid event_id")
	}
	actorID, err := uuid.Parse(event.ActorID)
	if err != nil {
		return errors.New("audit event has invalid actor_id")
	}

	var details []byte
	if len(event.Details) > 0 {
		details, err = json.Marshal(event.Details)
		if err != nil {
			return err
		}
	}

	log := &AuditLog{
		ID:           uuid.New(),
		EventID:      eventID,
		ActorID:      actorID,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		OccurredAt:   event.OccurredAt,
		Details:      details,
	}
	if event.ResourceID != "" {
		v := event.ResourceID
		log.ResourceID = &v
	}

	if err := s.repo.Create(ctx, log); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			s.logger.Debug("audit event already persisted",
				zap.String("event_id", event.EventID),
			)
			return nil
		}
		s.logger.Error("persist audit log failed",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("audit log persisted",
		zap.String("event_id", event.EventID),
		zap.String("action", event.Action),
		zap.String("resource_type", event.ResourceType),
	)
	return nil
}

func mapToResponse(log AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:           log.ID.String(),
		EventID:      log.EventID.String(),
		ActorID:      log.ActorID.String(),
		Action:       log.Action,
		ResourceType: log.ResourceType,
		ResourceID:   log.ResourceID,
		OccurredAt:   log.OccurredAt.Format(time.RFC3339),
	}
	if len(log.Details) > 0 {
		var details map[string]any
		if err := json.Unmarshal(log.Details, &details); err == nil {
			resp.Details = details
		}
	}
	return resp
}

func mapToListResponse(logs []AuditLog) []AuditLogResponse {
	resp := make([]AuditLogResponse, len(logs))
	for i, log := range logs {
		resp[i] = mapToResponse(log)
	}
	return resp
}
