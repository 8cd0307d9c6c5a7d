package balance_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dataguard-hris/internal/balance"
	balanceerrors "dataguard-hris/internal/balance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeBalanceService struct {
	getSnapshotFn func(ctx context.Context, userID string) (balance.BalanceResponse, error)
	applyUsageFn  func(ctx context.Context, tx *sql.Tx, userID, bucket string, days int) error
	invalidateFn  func(ctx context.Context, userID string)
}

func (f *fakeBalanceService) GetSnapshot(ctx context.Context, userID string) (balance.BalanceResponse, error) {
	return f.getSnapshotFn(ctx, userID)
}
func (f *fakeBalanceService) ApplyUsage(ctx context.Context, tx *sql.Tx, userID, bucket string, days int) error {
	if f.applyUsageFn != nil {
		return f.applyUsageFn(ctx, tx, userID, bucket, days)
	}
	return nil
}
func (f *fakeBalanceService) Invalidate(ctx context.Context, userID string) {
	if f.invalidateFn != nil {
		f.invalidateFn(ctx, userID)
	}
}

func TestBalanceHandler_GetMine(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeBalanceService{
			getSnapshotFn: func(ctx context.Context, userID string) (balance.BalanceResponse, error) {
				assert.Equal(t, actorID, userID)
				return balance.BalanceResponse{
					UserID: userID,
					Annual: balance.BucketResponse{Total: 20, Used: 3, Remaining: 17},
					Sick:   balance.BucketResponse{Total: 10, Used: 0, Remaining: 10},
					Casual: balance.BucketResponse{Total: 5, Used: 1, Remaining: 4},
				}, nil
			},
		}

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/balances/me", nil)
		c.Set("user_id", actorID)

		h.GetMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got balance.BalanceResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, 17, got.Annual.Remaining)
	})
}

func TestBalanceHandler_GetByUser(t *testing.T) {
	t.Run("success uses path param", func(t *testing.T) {
		targetID := uuid.New().String()
		svc := &fakeBalanceService{
			getSnapshotFn: func(ctx context.Context, userID string) (balance.BalanceResponse, error) {
				assert.Equal(t, targetID, userID)
				return balance.BalanceResponse{UserID: userID}, nil
			},
		}

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/balances/"+targetID, nil)
		c.Params = gin.Params{{Key: "user_id", Value: targetID}}
		c.Set("user_id", uuid.New().String())

		h.GetByUser(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative invalid user id", func(t *testing.T) {
		svc := &fakeBalanceService{
			getSnapshotFn: func(ctx context.Context, userID string) (balance.BalanceResponse, error) {
				return balance.BalanceResponse{}, balanceerrors.ErrInvalidUserID
			},
		}

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/balances/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "user_id", Value: "not-a-uuid"}}
		c.Set("user_id", uuid.New().String())

		h.GetByUser(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}
