package handlers

import (
	"time"

	"rentalhub/internal/middleware"
	"rentalhub/internal/models"
	"rentalhub/pkg/jwt"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountService is the part of services.UserService the auth endpoints use.
type AccountService interface {
	Register(email, password, fullName string, phone *string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
}

type AuthHandler struct {
	users      AccountService
	jwtManager *jwt.JWTManager
}

func NewAuthHandler(users AccountService, jwtManager *jwt.JWTManager) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtManager: jwtManager,
	}
}

type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	FullName string  `json:"full_name" binding:"required,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register signs up a tenant and logs them in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		response.FromError(c, err, "registration failed")
		return
	}
	h.issueToken(c, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		response.FromError(c, err, "login failed")
		return
	}
	h.issueToken(c, user)
}

func (h *AuthHandler) issueToken(c *gin.Context, user *models.User) {
	token, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		response.ServerError(c, "failed to issue token")
		return
	}
	response.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.jwtManager.GetTokenDuration()).Unix(),
		User:      user,
	})
}

// Me returns the logged-in account.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "please log in")
		return
	}
	response.Success(c, user)
}
