package services

import (
	stderrors "errors"

	"rentalhub/internal/models"
	apperrors "rentalhub/pkg/errors"

	"gorm.io/gorm"
)

// Actor is the authenticated caller as seen by services.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) IsLandlord() bool {
	return a.Role == models.RoleLandlord
}

// CanManage reports whether the actor may change a resource owned by
// landlordID (a landlord user id).
func (a Actor) CanManage(landlordID *uint) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsLandlord() && landlordID != nil && *landlordID == a.UserID
}

// notFoundOr maps gorm.ErrRecordNotFound to a 404 and passes other errors on.
func notFoundOr(err error, what string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(what + " not found")
	}
	return err
}

// conflictOr maps duplicate key violations to a 409.
func conflictOr(err error, msg string) error {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict(msg)
	}
	return err
}
