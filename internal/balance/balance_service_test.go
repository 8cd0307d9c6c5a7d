package balance_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dataguard-hris/internal/balance"
	balanceerrors "dataguard-hris/internal/balance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeBalanceRepository struct {
	withTxFn      func(tx *sql.Tx) balance.Repository
	getOrCreateFn func(ctx context.Context, userID string) (*balance.LeaveBalance, error)
	addUsedFn     func(ctx context.Context, userID, bucket string, days int, strict bool) (int64, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) GetOrCreate(ctx context.Context, userID string) (*balance.LeaveBalance, error) {
	if f.getOrCreateFn != nil {
		return f.getOrCreateFn(ctx, userID)
	}
	return &balance.LeaveBalance{
		UserID:      uuid.MustParse(userID),
		AnnualTotal: balance.DefaultAnnualTotal,
		SickTotal:   balance.DefaultSickTotal,
		CasualTotal: balance.DefaultCasualTotal,
	}, nil
}

func (f *fakeBalanceRepository) AddUsed(ctx context.Context, userID, bucket string, days int, strict bool) (int64, error) {
	if f.addUsedFn != nil {
		return f.addUsedFn(ctx, userID, bucket, days, strict)
	}
	return 1, nil
}

func newTestTx(t *testing.T) (*sql.DB, *sql.Tx) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)
	return db, tx
}

func TestBalanceService_GetSnapshot(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("fresh ledger uses defaults", func(t *testing.T) {
		repo := &fakeBalanceRepository{}
		svc := balance.NewService(repo, nil, balance.OverdraftPolicyAllow)

		resp, err := svc.GetSnapshot(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 20, resp.Annual.Total)
		assert.Equal(t, 20, resp.Annual.Remaining)
		assert.Equal(t, 10, resp.Sick.Total)
		assert.Equal(t, 5, resp.Casual.Total)
	})

	t.Run("remaining reflects used days", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			getOrCreateFn: func(ctx context.Context, id string) (*balance.LeaveBalance, error) {
				return &balance.LeaveBalance{
					UserID:      uuid.MustParse(id),
					AnnualTotal: 20, AnnualUsed: 3,
					SickTotal: 10, SickUsed: 10,
					CasualTotal: 5,
				}, nil
			},
		}
		svc := balance.NewService(repo, nil, balance.OverdraftPolicyAllow)

		resp, err := svc.GetSnapshot(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 17, resp.Annual.Remaining)
		assert.Equal(t, 0, resp.Sick.Remaining)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		cached := balance.BalanceResponse{
			UserID: userID,
			Annual: balance.BucketResponse{Total: 20, Used: 2, Remaining: 18},
		}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)
		rmock.ExpectGet(balance.GetSnapshotKey(userID)).SetVal(string(payload))

		repo := &fakeBalanceRepository{
			getOrCreateFn: func(ctx context.Context, id string) (*balance.LeaveBalance, error) {
				t.Fatal("repository should not be hit on cache hit")
				return nil, nil
			},
		}
		svc := balance.NewService(repo, rdb, balance.OverdraftPolicyAllow)

		resp, err := svc.GetSnapshot(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("cache miss stores snapshot", func(t *testing.T) {
		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectGet(balance.GetSnapshotKey(userID)).RedisNil()
		rmock.Regexp().ExpectSet(balance.GetSnapshotKey(userID), `.*`, time.Hour).SetVal("OK")

		repo := &fakeBalanceRepository{}
		svc := balance.NewService(repo, rdb, balance.OverdraftPolicyAllow)

		resp, err := svc.GetSnapshot(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 20, resp.Annual.Total)
	})

	t.Run("negative invalid user id", func(t *testing.T) {
		svc := balance.NewService(&fakeBalanceRepository{}, nil, balance.OverdraftPolicyAllow)

		_, err := svc.GetSnapshot(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidUserID)
	})
}

func TestBalanceService_ApplyUsage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success deducts inside caller tx", func(t *testing.T) {
		db, tx := newTestTx(t)
		defer db.Close()

		var sawTx *sql.Tx
		repo := &fakeBalanceRepository{}
		repo.withTxFn = func(gotTx *sql.Tx) balance.Repository {
			sawTx = gotTx
			return repo
		}
		var gotStrict bool
		repo.addUsedFn = func(ctx context.Context, id, bucket string, days int, strict bool) (int64, error) {
			assert.Equal(t, userID, id)
			assert.Equal(t, balance.BucketAnnual, bucket)
			assert.Equal(t, 3, days)
			gotStrict = strict
			return 1, nil
		}

		svc := balance.NewService(repo, nil, balance.OverdraftPolicyAllow)
		err := svc.ApplyUsage(ctx, tx, userID, balance.BucketAnnual, 3)
		assert.NoError(t, err)
		assert.Equal(t, tx, sawTx)
		assert.False(t, gotStrict)
	})

	t.Run("strict policy refuses overdraft", func(t *testing.T) {
		db, tx := newTestTx(t)
		defer db.Close()

		repo := &fakeBalanceRepository{
			addUsedFn: func(ctx context.Context, id, bucket string, days int, strict bool) (int64, error) {
				assert.True(t, strict)
				return 0, nil
			},
		}
		svc := balance.NewService(repo, nil, balance.OverdraftPolicyStrict)

		err := svc.ApplyUsage(ctx, tx, userID, balance.BucketSick, 11)
		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
	})

	t.Run("allow policy permits overdraft", func(t *testing.T) {
		db, tx := newTestTx(t)
		defer db.Close()

		repo := &fakeBalanceRepository{
			addUsedFn: func(ctx context.Context, id, bucket string, days int, strict bool) (int64, error) {
				assert.False(t, strict)
				return 1, nil
			},
		}
		svc := balance.NewService(repo, nil, balance.OverdraftPolicyAllow)

		err := svc.ApplyUsage(ctx, tx, userID, balance.BucketSick, 11)
		assert.NoError(t, err)
	})

	t.Run("negative unknown bucket", func(t *testing.T) {
		db, tx := newTestTx(t)
		defer db.Close()

		svc := balance.NewService(&fakeBalanceRepository{}, nil, balance.OverdraftPolicyAllow)
		err := svc.ApplyUsage(ctx, tx, userID, "maternity", 3)
		assert.ErrorIs(t, err, balanceerrors.ErrUnknownBucket)
	})

	t.Run("negative zero days", func(t *testing.T) {
		db, tx := newTestTx(t)
		defer db.Close()

		svc := balance.NewService(&fakeBalanceRepository{}, nil, balance.OverdraftPolicyAllow)
		err := svc.ApplyUsage(ctx, tx, userID, balance.BucketAnnual, 0)
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidDays)
	})

	t.Run("negative repository failure propagates", func(t *testing.T) {
		db, tx := newTestTx(t)
		defer db.Close()

		repo := &fakeBalanceRepository{
			getOrCreateFn: func(ctx context.Context, id string) (*balance.LeaveBalance, error) {
				return nil, errors.New("connection refused")
			},
		}
		svc := balance.NewService(repo, nil, balance.OverdraftPolicyAllow)

		err := svc.ApplyUsage(ctx, tx, userID, balance.BucketAnnual, 2)
		assert.Error(t, err)
	})
}
