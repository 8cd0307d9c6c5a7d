package performance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dataguard-hris/internal/performance"
	performanceerrors "dataguard-hris/internal/performance/errors"

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

type fakePerformanceService struct {
	createCycleFn  func(ctx context.Context, req performance.CreateCycleRequest) (performance.CycleResponse, error)
	listCyclesFn   func(ctx context.Context, canSeeAll bool) ([]performance.CycleResponse, error)
	advanceCycleFn func(ctx context.Context, cycleID string, req performance.UpdateCycleStatusRequest) (performance.CycleResponse, error)
	createGoalFn   func(ctx context.Context, actorID string, req performance.CreateGoalRequest) (performance.GoalResponse, error)
	listGoalsFn    func(ctx context.Context, actorID, cycleID string) ([]performance.GoalResponse, error)
	updateGoalFn   func(ctx context.Context, actorID, goalID string, req performance.UpdateGoalRequest) (performance.GoalResponse, error)
}

func (f *fakePerformanceService) CreateCycle(ctx context.Context, req performance.CreateCycleRequest) (performance.CycleResponse, error) {
	return f.createCycleFn(ctx, req)
}
func (f *fakePerformanceService) ListCycles(ctx context.Context, canSeeAll bool) ([]performance.CycleResponse, error) {
	return f.listCyclesFn(ctx, canSeeAll)
}
func (f *fakePerformanceService) AdvanceCycle(ctx context.Context, cycleID string, req performance.UpdateCycleStatusRequest) (performance.CycleResponse, error) {
	return f.advanceCycleFn(ctx, cycleID, req)
}
func (f *fakePerformanceService) CreateGoal(ctx context.Context, actorID string, req performance.CreateGoalRequest) (performance.GoalResponse, error) {
	return f.createGoalFn(ctx, actorID, req)
}
func (f *fakePerformanceService) ListGoals(ctx context.Context, actorID, cycleID string) ([]performance.GoalResponse, error) {
	return f.listGoalsFn(ctx, actorID, cycleID)
}
func (f *fakePerformanceService) UpdateGoal(ctx context.Context, actorID, goalID string, req performance.UpdateGoalRequest) (performance.GoalResponse, error) {
	return f.updateGoalFn(ctx, actorID, goalID, req)
}

func TestPerformanceHandler_Cycles(t *testing.T) {
	t.Run("create success", func(t *testing.T) {
		svc := &fakePerformanceService{
			createCycleFn: func(ctx context.Context, req performance.CreateCycleRequest) (performance.CycleResponse, error) {
				assert.Equal(t, "H2 2026", req.Name)
				return performance.CycleResponse{
					ID:        uuid.New().String(),
					Name:      req.Name,
					StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
					Status:    performance.CycleStatusDraft,
				}, nil
			},
		}

		h := performance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"name":"H2 2026","start_date":"2026-07-01","end_date":"2026-12-31"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/performance/cycles", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.CreateCycle(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got performance.CycleResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, performance.CycleStatusDraft, got.Status)
	})

	t.Run("list passes role visibility", func(t *testing.T) {
		svc := &fakePerformanceService{
			listCyclesFn: func(ctx context.Context, canSeeAll bool) ([]performance.CycleResponse, error) {
				assert.True(t, canSeeAll)
				return nil, nil
			},
		}

		h := performance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/performance/cycles", nil)
		c.Set("user_id", uuid.New().String())
		c.Set("role", "hr_admin")

		h.ListCycles(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative binding rejects unknown status", func(t *testing.T) {
		h := performance.NewHandler(&fakePerformanceService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"status":"archived"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/performance/cycles/x/status", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: "x"}}
		c.Set("user_id", uuid.New().String())

		h.AdvanceCycle(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("skipped stage maps to invalid state", func(t *testing.T) {
		svc := &fakePerformanceService{
			advanceCycleFn: func(ctx context.Context, cycleID string, req performance.UpdateCycleStatusRequest) (performance.CycleResponse, error) {
				return performance.CycleResponse{}, performanceerrors.ErrInvalidCycleTransition
			},
		}

		h := performance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"status":"closed"}`
		cycleID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/performance/cycles/"+cycleID+"/status", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: cycleID}}
		c.Set("user_id", uuid.New().String())

		h.AdvanceCycle(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestPerformanceHandler_Goals(t *testing.T) {
	t.Run("create success", func(t *testing.T) {
		actorID := uuid.New().String()
		cycleID := uuid.New().String()

		svc := &fakePerformanceService{
			createGoalFn: func(ctx context.Context, aid string, req performance.CreateGoalRequest) (performance.GoalResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, cycleID, req.CycleID)
				return performance.GoalResponse{
					ID:      uuid.New().String(),
					CycleID: req.CycleID,
					UserID:  aid,
					Title:   req.Title,
					Status:  performance.GoalStatusPending,
				}, nil
			},
		}

		h := performance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"cycle_id":"` + cycleID + `","title":"Ship the audit trail"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/performance/goals", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.CreateGoal(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("inactive cycle maps to conflict", func(t *testing.T) {
		svc := &fakePerformanceService{
			createGoalFn: func(ctx context.Context, aid string, req performance.CreateGoalRequest) (performance.GoalResponse, error) {
				return performance.GoalResponse{}, performanceerrors.ErrCycleNotActive
			},
		}

		h := performance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"cycle_id":"` + uuid.New().String() + `","title":"Ship the audit trail"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/performance/goals", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.CreateGoal(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("update not owner maps to forbidden", func(t *testing.T) {
		svc := &fakePerformanceService{
			updateGoalFn: func(ctx context.Context, aid, goalID string, req performance.UpdateGoalRequest) (performance.GoalResponse, error) {
				return performance.GoalResponse{}, performanceerrors.ErrNotGoalOwner
			},
		}

		h := performance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		goalID := uuid.New().String()
		body := `{"progress":50}`
		c.Request = httptest.NewRequest(http.MethodPut, "/performance/goals/"+goalID, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: goalID}}
		c.Set("user_id", uuid.New().String())

		h.UpdateGoal(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("list scopes to actor and cycle filter", func(t *testing.T) {
		actorID := uuid.New().String()
		cycleID := uuid.New().String()

		svc := &fakePerformanceService{
			listGoalsFn: func(ctx context.Context, aid, cid string) ([]performance.GoalResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, cycleID, cid)
				return []performance.GoalResponse{{ID: uuid.New().String(), UserID: aid}}, nil
			},
		}

		h := performance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/performance/goals?cycle_id="+cycleID, nil)
		c.Set("user_id", actorID)

		h.ListGoals(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got []performance.GoalResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
	})
}
