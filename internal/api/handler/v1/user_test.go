package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/quizhub-api/internal/domain"
	"github.com/quizhub/quizhub-api/internal/service"
)

type stubUserService struct {
	users map[uint]domain.User
}

func (s *stubUserService) GetUser(_ context.Context, id uint) (domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}

	return user, nil
}

func (s *stubUserService) ListUsers(_ context.Context) ([]domain.User, error) {
	return nil, nil
}

func (s *stubUserService) UpdateUser(_ context.Context, _ uint, _ domain.UserUpdate, _ uint) (domain.User, error) {
	return domain.User{}, nil
}

func (s *stubUserService) DeleteUser(_ context.Context, _, _ uint) error {
	return nil
}

type stubMembershipService struct{}

func (stubMembershipService) AcceptInvite(_ context.Context, _, _ uint) error {
	return nil
}

func (stubMembershipService) CreateRequest(_ context.Context, _, _ uint) (domain.Request, error) {
	return domain.Request{}, nil
}

func setupUserRouter(t *testing.T, svc UserService, authedUserID uint) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewUserHandler(svc, stubMembershipService{})

	group := router.Group("/api/v1")
	if authedUserID != 0 {
		group.Use(func(ctx *gin.Context) {
			ctx.Set("userID", authedUserID)
		})
	}
	group.GET("/users/me", handler.HandleGetMe)
	group.GET("/users/:userID", handler.HandleGetUser)

	return router
}

func TestUserHandler_GetMe(t *testing.T) {
	svc := &stubUserService{users: map[uint]domain.User{
		7: {ID: 7, Name: "Jane", Email: "jane@example.com"},
		8: {ID: 8, Name: "John", Email: "john@example.com"},
	}}
	router := setupUserRouter(t, svc, 7)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var got domain.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "jane@example.com", got.Email)
}

func TestUserHandler_GetMe_Unauthenticated(t *testing.T) {
	svc := &stubUserService{users: map[uint]domain.User{}}
	router := setupUserRouter(t, svc, 0)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	svc := &stubUserService{users: map[uint]domain.User{}}
	router := setupUserRouter(t, svc, 7)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/99", nil)
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
