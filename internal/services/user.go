package services

import (
	"fmt"
	"strings"
	"time"

	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NewUser is the input for account creation.
type NewUser struct {
	Email    string
	Password string
	FullName string
	Phone    *string
	Role     string
}

// Register creates a tenant account.
func (s *UserService) Register(email, password, fullName string, phone *string) (*models.User, error) {
	return s.Create(s.db, NewUser{
		Email:    email,
		Password: password,
		FullName: fullName,
		Phone:    phone,
		Role:     models.RoleTenant,
	})
}

// Create inserts a user with db, which may be a transaction.
func (s *UserService) Create(db *gorm.DB, in NewUser) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if len(in.Password) < 8 {
		return nil, apperrors.Validation("invalid account", map[string]string{"password": "must be at least 8 characters"})
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.Conflict("email already registered")
	}

	role := in.Role
	if role == "" {
		role = models.RoleTenant
	}
	user := &models.User{
		Email:    email,
		FullName: strings.TrimSpace(in.FullName),
		Phone:    in.Phone,
		Role:     role,
		Status:   models.UserStatusActive,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := db.Create(user).Error; err != nil {
		return nil, conflictOr(err, "email already registered")
	}
	return user, nil
}

// Authenticate checks credentials and stamps the login time.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil || !user.CheckPassword(password) {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid email or password", nil)
	}
	if !user.IsActive() {
		return nil, apperrors.Forbidden("account is disabled")
	}

	now := time.Now()
	user.LastLoginAt = &now
	s.db.Model(&user).Update("last_login_at", now)
	return &user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
