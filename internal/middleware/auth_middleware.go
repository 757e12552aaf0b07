package middleware

import (
	"strings"

	"rentalhub/internal/models"
	"rentalhub/internal/services"
	"rentalhub/pkg/jwt"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetByID(id uint) (*models.User, error)
}

// AuthMiddleware authentication and role checks
type AuthMiddleware struct {
	users      UserLookup
	jwtManager *jwt.JWTManager
}

func NewAuthMiddleware(users UserLookup, jwtManager *jwt.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		users:      users,
		jwtManager: jwtManager,
	}
}

// authenticate resolves the bearer token. On failure user is nil and msg says
// why.
func (m *AuthMiddleware) authenticate(c *gin.Context) (user *models.User, claims *jwt.JWTClaims, msg string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, nil, "please log in"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, nil, "malformed authorization header"
	}

	claims, err := m.jwtManager.VerifyToken(authHeader[7:])
	if err != nil {
		return nil, nil, "token is invalid or expired"
	}

	user, err = m.users.GetByID(claims.UserID)
	if err != nil {
		return nil, nil, "user does not exist"
	}
	if !user.IsActive() {
		return nil, nil, "account is disabled"
	}
	return user, claims, ""
}

func setIdentity(c *gin.Context, user *models.User, claims *jwt.JWTClaims) {
	c.Set("user", user)
	c.Set("user_id", user.ID)
	c.Set("role", user.Role)
	c.Set("claims", claims)
}

// RequireLogin rejects requests without a valid token.
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, msg := m.authenticate(c)
		if user == nil {
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		setIdentity(c, user, claims)
		c.Next()
	}
}

// OptionalLogin identifies the caller when a valid token is sent and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, claims, _ := m.authenticate(c); user != nil {
			setIdentity(c, user, claims)
		}
		c.Next()
	}
}

// RequireRole must run after RequireLogin.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Unauthorized(c, "please log in")
			c.Abort()
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient permissions: requires role "+strings.Join(roles, " or "))
		c.Abort()
	}
}

// CombineRoleMiddleware login plus role
func (m *AuthMiddleware) CombineRoleMiddleware(roles ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.RequireLogin(),
		m.RequireRole(roles...),
	}
}

// CurrentActor returns the caller set by the auth middleware. Anonymous
// callers get a zero Actor.
func CurrentActor(c *gin.Context) services.Actor {
	return services.Actor{
		UserID: c.GetUint("user_id"),
		Role:   c.GetString("role"),
	}
}

// CurrentUser returns the loaded account, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
