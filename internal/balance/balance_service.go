package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	balanceerrors "dataguard-hris/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	OverdraftPolicyAllow  = "allow"
	OverdraftPolicyStrict = "strict"

	snapshotKeyPrefix = "leave_balances:snapshot:"
	snapshotTTL       = 1 * time.Hour
)

func GetSnapshotKey(userID string) string {
	return snapshotKeyPrefix + userID
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetSnapshot(ctx context.Context, userID string) (BalanceResponse, error)
	// ApplyUsage deducts days from a bucket inside the caller's transaction.
	// The leave module is the only caller; it owns the commit.
	ApplyUsage(ctx context.Context, tx *sql.Tx, userID, bucket string, days int) error
	Invalidate(ctx context.Context, userID string)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	strict bool
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, overdraftPolicy string, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		strict: overdraftPolicy == OverdraftPolicyStrict,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetSnapshot(ctx context.Context, userID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidUserID
	}

	cacheKey := GetSnapshotKey(userID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp BalanceResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		b, err := s.repo.GetOrCreate(ctx, userID)
		if err != nil {
			s.logger.Error("load leave balance failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return nil, err
		}

		resp := mapToResponse(*b)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, snapshotTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return BalanceResponse{}, err
	}
	return v.(BalanceResponse), nil
}

func (s *service) ApplyUsage(ctx context.Context, tx *sql.Tx, userID, bucket string, days int) error {
	if days < 1 {
		return balanceerrors.ErrInvalidDays
	}
	if _, ok := bucketColumns[bucket]; !ok {
		return balanceerrors.ErrUnknownBucket
	}

	qtx := s.repo.WithTx(tx)

	// Lazy row creation so first-ever approvals hit defaults, not a miss.
	if _, err := qtx.GetOrCreate(ctx, userID); err != nil {
		s.logger.Error("ensure leave balance row failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	rows, err := qtx.AddUsed(ctx, userID, bucket, days, s.strict)
	if err != nil {
		s.logger.Error("apply leave usage failed",
			zap.String("user_id", userID),
			zap.String("bucket", bucket),
			zap.Int("days", days),
			zap.Error(err),
		)
		return err
	}
	if rows == 0 {
		s.logger.Warn("apply leave usage refused by strict overdraft policy",
			zap.String("user_id", userID),
			zap.String("bucket", bucket),
			zap.Int("days", days),
		)
		return balanceerrors.ErrInsufficientBalance
	}

	s.logger.Info("leave usage applied",
		zap.String("user_id", userID),
		zap.String("bucket", bucket),
		zap.Int("days", days),
	)
	return nil
}

func (s *service) Invalidate(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetSnapshotKey(userID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate balance snapshot cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		UserID: b.UserID.String(),
		Annual: BucketResponse{
			Total:     b.AnnualTotal,
			Used:      b.AnnualUsed,
			Remaining: b.AnnualTotal - b.AnnualUsed,
		},
		Sick: BucketResponse{
			Total:     b.SickTotal,
			Used:      b.SickUsed,
			Remaining: b.SickTotal - b.SickUsed,
		},
		Casual: BucketResponse{
			Total:     b.CasualTotal,
			Used:      b.CasualUsed,
			Remaining: b.CasualTotal - b.CasualUsed,
		},
	}
}
