package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"
	"rentalhub/pkg/jwt"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUsers map[uint]*models.User

func (s stubUsers) GetByID(id uint) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func newUser(id uint, role, status string) *models.User {
	u := &models.User{Email: "u@example.com", Role: role, Status: status}
	u.ID = id
	return u
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func setupAuth(t *testing.T) (*AuthMiddleware, *jwt.JWTManager) {
	manager := jwt.NewJWTManager("test-secret", time.Hour)
	users := stubUsers{
		1: newUser(1, models.RoleAdmin, models.UserStatusActive),
		2: newUser(2, models.RoleTenant, models.UserStatusActive),
		3: newUser(3, models.RoleLandlord, models.UserStatusLocked),
	}
	return NewAuthMiddleware(users, manager), manager
}

func bearer(t *testing.T, m *jwt.JWTManager, id uint, role string) string {
	token, err := m.GenerateToken(id, "u@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRequireLogin(t *testing.T) {
	auth, manager := setupAuth(t)

	r := gin.New()
	r.GET("/me", auth.RequireLogin(), func(c *gin.Context) {
		actor := CurrentActor(c)
		response.Success(c, gin.H{"user_id": actor.UserID, "role": actor.Role})
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", apperrors.CodeUnauthorized},
		{"not bearer", "Token abc", apperrors.CodeUnauthorized},
		{"garbage token", "Bearer abc", apperrors.CodeUnauthorized},
		{"unknown user", bearer(t, manager, 99, models.RoleTenant), apperrors.CodeUnauthorized},
		{"disabled user", bearer(t, manager, 3, models.RoleLandlord), apperrors.CodeUnauthorized},
		{"valid", bearer(t, manager, 2, models.RoleTenant), apperrors.CodeSuccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, decode(t, w).Code)
		})
	}
}

func TestRequireRole_UsesStoredRole(t *testing.T) {
	auth, manager := setupAuth(t)

	r := gin.New()
	r.GET("/admin", append(auth.CombineRoleMiddleware(models.RoleAdmin), func(c *gin.Context) {
		response.Success(c, nil)
	})...)

	// a tenant token claiming admin is still a tenant
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, manager, 2, models.RoleAdmin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, apperrors.CodeForbidden, decode(t, w).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", bearer(t, manager, 1, models.RoleAdmin))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, apperrors.CodeSuccess, decode(t, w).Code)
}

func TestOptionalLogin(t *testing.T) {
	auth, manager := setupAuth(t)

	r := gin.New()
	r.GET("/p", auth.OptionalLogin(), func(c *gin.Context) {
		response.Success(c, CurrentActor(c).UserID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	body := decode(t, w)
	assert.Equal(t, apperrors.CodeSuccess, body.Code)
	assert.EqualValues(t, 0, body.Data)

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", bearer(t, manager, 2, models.RoleTenant))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.EqualValues(t, 2, decode(t, w).Data)
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, apperrors.CodeServerError, decode(t, w).Code)
}

func TestRateLimiter(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	r := gin.New()
	r.GET("/x", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, statuses)

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	defer rl.Stop()

	rl.get("a")
	rl.get("b")
	rl.clients["a"].lastSeen = time.Now().Add(-time.Hour)

	assert.Equal(t, 1, rl.evictIdle())
	assert.Len(t, rl.clients, 1)
}
