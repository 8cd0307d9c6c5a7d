package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dataguard-hris/internal/auth"
	autherrors "dataguard-hris/internal/auth/errors"

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

type fakeAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (auth.TokenPairResponse, error)
	refreshFn  func(ctx context.Context, refreshToken string) (auth.TokenPairResponse, error)
	getMeFn    func(ctx context.Context, userID string) (*auth.AuthResponse, error)
	registerFn func(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (auth.TokenPairResponse, error) {
	return f.loginFn(ctx, email, password)
}
func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenPairResponse, error) {
	return f.refreshFn(ctx, refreshToken)
}
func (f *fakeAuthService) GetMe(ctx context.Context, userID string) (*auth.AuthResponse, error) {
	return f.getMeFn(ctx, userID)
}
func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
	return f.registerFn(ctx, req)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (auth.TokenPairResponse, error) {
				assert.Equal(t, "admin@example.com", email)
				return auth.TokenPairResponse{
					User:         auth.AuthResponse{ID: uuid.New().String(), Email: email, Role: "hr_admin"},
					AccessToken:  "access",
					RefreshToken: "refresh",
				}, nil
			},
		}
		handler := auth.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"admin@example.com","password":"password123"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var pair auth.TokenPairResponse
		assert.NoError(t, json.Unmarshal(env.Data, &pair))
		assert.Equal(t, "access", pair.AccessToken)
		assert.Equal(t, "hr_admin", pair.User.Role)
	})

	t.Run("negative missing email rejected by binding", func(t *testing.T) {
		handler := auth.NewHandler(&fakeAuthService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"password":"password123"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative wrong credentials map to 401", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (auth.TokenPairResponse, error) {
				return auth.TokenPairResponse{}, autherrors.ErrInvalidCredentials
			},
		}
		handler := auth.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"admin@example.com","password":"nope"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("negative invalid token maps to 401", func(t *testing.T) {
		svc := &fakeAuthService{
			refreshFn: func(ctx context.Context, refreshToken string) (auth.TokenPairResponse, error) {
				return auth.TokenPairResponse{}, autherrors.ErrInvalidRefreshToken
			},
		}
		handler := auth.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/refresh",
			strings.NewReader(`{"refresh_token":"stale"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.RefreshToken(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userID := uuid.New().String()
		svc := &fakeAuthService{
			getMeFn: func(ctx context.Context, id string) (*auth.AuthResponse, error) {
				assert.Equal(t, userID, id)
				return &auth.AuthResponse{ID: id, Email: "me@example.com", Role: "core_staff"}, nil
			},
		}
		handler := auth.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		c.Set("user_id", userID)

		handler.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative missing identity", func(t *testing.T) {
		handler := auth.NewHandler(&fakeAuthService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

		handler.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("success returns 201", func(t *testing.T) {
		svc := &fakeAuthService{
			registerFn: func(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
				return auth.AuthResponse{ID: uuid.New().String(), Email: req.Email, Name: req.Name, Role: "core_staff"}, nil
			},
		}
		handler := auth.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"email":"new@example.com","name":"New User","password":"password123"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.Register(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("negative duplicate email maps to 409", func(t *testing.T) {
		svc := &fakeAuthService{
			registerFn: func(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
				return auth.AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
			},
		}
		handler := auth.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"email":"dupe@example.com","name":"Dupe","password":"password123"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.Register(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}
