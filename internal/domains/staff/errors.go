package staff

import (
	"net/http"

	"guidelight-backend/internal/shared/apperror"
)

var (
	ErrStaffNotFound      = apperror.New(http.StatusNotFound, "STAFF_NOT_FOUND", "Staff member not found")
	ErrEmailAlreadyExists = apperror.New(http.StatusConflict, "EMAIL_EXISTS", "A staff member with this email already exists")

	// Deliberately identical for unknown email and wrong password
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrStaffInactive      = apperror.New(http.StatusUnauthorized, "STAFF_INACTIVE", "This account has been deactivated")
	ErrInvalidToken       = apperror.New(http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid or expired refresh token")
	ErrTooManyAttempts    = apperror.New(http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many failed logins, try again later")

	ErrCannotDemoteSelf = apperror.New(http.StatusConflict, "CANNOT_DEMOTE_SELF", "Managers cannot remove their own manager role or deactivate themselves")
)
