package onboarding_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dataguard-hris/internal/onboarding"
	onboardingerrors "dataguard-hris/internal/onboarding/errors"

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

type fakeOnboardingService struct {
	createItemFn func(ctx context.Context, actorID string, req onboarding.CreateItemRequest) (onboarding.ItemResponse, error)
	listItemsFn  func(ctx context.Context) ([]onboarding.ItemResponse, error)
	updateItemFn func(ctx context.Context, itemID string, req onboarding.UpdateItemRequest) (onboarding.ItemResponse, error)
	deleteItemFn func(ctx context.Context, itemID string) error
	assignFn     func(ctx context.Context, actorID string, req onboarding.AssignRequest) ([]onboarding.TaskResponse, error)
	listTasksFn  func(ctx context.Context, actorID, targetUserID string, canReadAll bool) ([]onboarding.TaskResponse, error)
	toggleFn     func(ctx context.Context, actorID, taskID string) (onboarding.TaskResponse, error)
}

func (f *fakeOnboardingService) CreateItem(ctx context.Context, actorID string, req onboarding.CreateItemRequest) (onboarding.ItemResponse, error) {
	return f.createItemFn(ctx, actorID, req)
}
func (f *fakeOnboardingService) ListItems(ctx context.Context) ([]onboarding.ItemResponse, error) {
	return f.listItemsFn(ctx)
}
func (f *fakeOnboardingService) UpdateItem(ctx context.Context, itemID string, req onboarding.UpdateItemRequest) (onboarding.ItemResponse, error) {
	return f.updateItemFn(ctx, itemID, req)
}
func (f *fakeOnboardingService) DeleteItem(ctx context.Context, itemID string) error {
	return f.deleteItemFn(ctx, itemID)
}
func (f *fakeOnboardingService) Assign(ctx context.Context, actorID string, req onboarding.AssignRequest) ([]onboarding.TaskResponse, error) {
	return f.assignFn(ctx, actorID, req)
}
func (f *fakeOnboardingService) ListTasks(ctx context.Context, actorID, targetUserID string, canReadAll bool) ([]onboarding.TaskResponse, error) {
	return f.listTasksFn(ctx, actorID, targetUserID, canReadAll)
}
func (f *fakeOnboardingService) Toggle(ctx context.Context, actorID, taskID string) (onboarding.TaskResponse, error) {
	return f.toggleFn(ctx, actorID, taskID)
}

func TestOnboardingHandler_CreateItem(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeOnboardingService{
			createItemFn: func(ctx context.Context, aid string, req onboarding.CreateItemRequest) (onboarding.ItemResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "Sign security policy", req.Title)
				return onboarding.ItemResponse{ID: uuid.New().String(), Title: req.Title}, nil
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"title":"Sign security policy","link":"https://intranet.example.com/policy"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/items", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.CreateItem(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative binding rejects bad link", func(t *testing.T) {
		h := onboarding.NewHandler(&fakeOnboardingService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"title":"Sign security policy","link":"not-a-url"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/items", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.CreateItem(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestOnboardingHandler_Assign(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()
		userID := uuid.New().String()
		itemID := uuid.New().String()

		svc := &fakeOnboardingService{
			assignFn: func(ctx context.Context, aid string, req onboarding.AssignRequest) ([]onboarding.TaskResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, userID, req.UserID)
				return []onboarding.TaskResponse{{
					ID:         uuid.New().String(),
					UserID:     req.UserID,
					Status:     onboarding.TaskStatusPending,
					AssignedBy: aid,
				}}, nil
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"user_id":"` + userID + `","item_ids":["` + itemID + `"]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/assign", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.Assign(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got []onboarding.TaskResponse
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
		assert.Equal(t, onboarding.TaskStatusPending, got[0].Status)
	})

	t.Run("negative binding requires item ids", func(t *testing.T) {
		h := onboarding.NewHandler(&fakeOnboardingService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"user_id":"` + uuid.New().String() + `","item_ids":[]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/assign", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Assign(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate assignment maps to conflict", func(t *testing.T) {
		svc := &fakeOnboardingService{
			assignFn: func(ctx context.Context, aid string, req onboarding.AssignRequest) ([]onboarding.TaskResponse, error) {
				return nil, onboardingerrors.ErrTaskAlreadyAssigned
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"user_id":"` + uuid.New().String() + `","item_ids":["` + uuid.New().String() + `"]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/assign", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Assign(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestOnboardingHandler_ListTasks(t *testing.T) {
	t.Run("hr admin can read other users", func(t *testing.T) {
		actorID := uuid.New().String()
		targetID := uuid.New().String()

		svc := &fakeOnboardingService{
			listTasksFn: func(ctx context.Context, aid, target string, canReadAll bool) ([]onboarding.TaskResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, targetID, target)
				assert.True(t, canReadAll)
				return nil, nil
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/onboarding/tasks?user_id="+targetID, nil)
		c.Set("user_id", actorID)
		c.Set("role", "hr_admin")

		h.ListTasks(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("staff role is not read all", func(t *testing.T) {
		svc := &fakeOnboardingService{
			listTasksFn: func(ctx context.Context, aid, target string, canReadAll bool) ([]onboarding.TaskResponse, error) {
				assert.False(t, canReadAll)
				return nil, nil
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/onboarding/tasks", nil)
		c.Set("user_id", uuid.New().String())
		c.Set("role", "core_staff")

		h.ListTasks(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOnboardingHandler_Toggle(t *testing.T) {
	t.Run("not owner maps to forbidden", func(t *testing.T) {
		svc := &fakeOnboardingService{
			toggleFn: func(ctx context.Context, aid, taskID string) (onboarding.TaskResponse, error) {
				return onboarding.TaskResponse{}, onboardingerrors.ErrNotTaskOwner
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		taskID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/tasks/"+taskID+"/toggle", nil)
		c.Params = gin.Params{{Key: "id", Value: taskID}}
		c.Set("user_id", uuid.New().String())

		h.Toggle(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("unknown task maps to not found", func(t *testing.T) {
		svc := &fakeOnboardingService{
			toggleFn: func(ctx context.Context, aid, taskID string) (onboarding.TaskResponse, error) {
				return onboarding.TaskResponse{}, onboardingerrors.ErrTaskNotFound
			},
		}

		h := onboarding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/onboarding/tasks/x/toggle", nil)
		c.Params = gin.Params{{Key: "id", Value: "x"}}
		c.Set("user_id", uuid.New().String())

		h.Toggle(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
