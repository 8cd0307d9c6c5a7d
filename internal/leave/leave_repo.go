package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TransitionFields carries the columns a status transition sets besides the
// status itself. Nil fields are left untouched.
type TransitionFields struct {
	ManagerApprovalTime *time.Time
	DecisionTime        *time.Time
	DecidedBy           *string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByRequester(ctx context.Context, requesterID string) ([]LeaveRequest, error)
	FindPendingManagerByManager(ctx context.Context, managerID string) ([]LeaveRequest, error)
	FindAllPending(ctx context.Context) ([]LeaveRequest, error)
	// TransitionStatus performs the guarded status update: the row changes
	// only if it still holds fromStatus. Zero affected rows means another
	// decision won the race or the state was never legal for this event.
	TransitionStatus(ctx context.Context, id, fromStatus, toStatus string, fields TransitionFields) (int64, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

// conn binds gorm statements to the attached transaction when there is
// one, so Create participates in the caller's Commit/Rollback.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	txDB, err := gorm.Open(postgres.New(postgres.Config{Conn: r.tx}), &gorm.Config{})
	if err != nil {
		db := r.db.WithContext(ctx)
		_ = db.AddError(err)
		return db
	}
	return txDB.WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByRequester(ctx context.Context, requesterID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingManagerByManager(ctx context.Context, managerID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Joins("JOIN profiles ON profiles.id = leave_requests.requester_id").
		Where("leave_requests.status = ?", StatusPendingManager).
		Where("profiles.manager_id = ?", managerID).
		Where("profiles.deleted_at IS NULL").
		Order("leave_requests.created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllPending(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) TransitionStatus(ctx context.Context, id, fromStatus, toStatus string, fields TransitionFields) (int64, error) {
	query := `
        UPDATE leave_requests
        SET status = $1,
            manager_approval_time = COALESCE($2, manager_approval_time),
            decision_time = COALESCE($3, decision_time),
            decided_by = COALESCE($4, decided_by),
            updated_at = now()
        WHERE id = $5 AND status = $6`

	res, err := r.execer().ExecContext(ctx, query,
		toStatus,
		fields.ManagerApprovalTime,
		fields.DecisionTime,
		fields.DecidedBy,
		id,
		fromStatus,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
