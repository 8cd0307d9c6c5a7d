package balance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// bucketColumns whitelists the ledger columns a bucket name may touch.
var bucketColumns = map[string]struct {
	used  string
	total string
}{
	BucketAnnual: {used: "annual_used", total: "annual_total"},
	BucketSick:   {used: "sick_used", total: "sick_total"},
	BucketCasual: {used: "casual_used", total: "casual_total"},
}

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetOrCreate(ctx context.Context, userID string) (*LeaveBalance, error)
	// AddUsed increments a bucket's used days and reports affected rows.
	// With strict set, the update refuses to push used past total.
	AddUsed(ctx context.Context, userID, bucket string, days int, strict bool) (int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) GetOrCreate(ctx context.Context, userID string) (*LeaveBalance, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	insert := `
        INSERT INTO leave_balances (
            user_id, annual_total, annual_used, sick_total, sick_used,
            casual_total, casual_used, created_at, updated_at
        ) VALUES ($1, $2, 0, $3, 0, $4, 0, now(), now())
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.execer().ExecContext(ctx, insert, id,
		DefaultAnnualTotal, DefaultSickTotal, DefaultCasualTotal); err != nil {
		return nil, err
	}

	query := `
        SELECT user_id, annual_total, annual_used, sick_total, sick_used,
               casual_total, casual_used, created_at, updated_at
        FROM leave_balances
        WHERE user_id = $1`
	var b LeaveBalance
	err = r.querier().QueryRowContext(ctx, query, id).Scan(
		&b.UserID,
		&b.AnnualTotal, &b.AnnualUsed,
		&b.SickTotal, &b.SickUsed,
		&b.CasualTotal, &b.CasualUsed,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) AddUsed(ctx context.Context, userID, bucket string, days int, strict bool) (int64, error) {
	cols, ok := bucketColumns[bucket]
	if !ok {
		return 0, fmt.Errorf("unknown balance bucket %q", bucket)
	}

	query := fmt.Sprintf(`
        UPDATE leave_balances
        SET %[1]s = %[1]s + $1, updated_at = now()
        WHERE user_id = $2`, cols.used)
	if strict {
		query += fmt.Sprintf(" AND %s + $1 <= %s", cols.used, cols.total)
	}

	res, err := r.execer().ExecContext(ctx, query, days, userID)
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
	return r.db
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
