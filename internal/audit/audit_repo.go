package audit

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type ListFilter struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, log *AuditLog) error
	List(ctx context.Context, filter ListFilter) ([]AuditLog, int64, error)
	FindByEventID(ctx context.Context, eventID string) (*AuditLog, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]AuditLog, int64, error) {
	db := r.db.WithContext(ctx).Model(&AuditLog{})
	if filter.ActorID != "" {
		db = db.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.ResourceType != "" {
		db = db.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		db = db.Where("resource_id = ?", filter.ResourceID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []AuditLog
	err := db.Order("occurred_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&logs).Error
	return logs, total, err
}

func (r *repository) FindByEventID(ctx context.Context, eventID string) (*AuditLog, error) {
	var log AuditLog
	err := r.db.WithContext(ctx).
		First(&log, "event_id = ?", eventID).Error
	return &log, err
}
