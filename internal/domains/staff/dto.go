package staff

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ========================================
// AUTH DTOs
// ========================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.EmailFormat),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

// Normalized lower-cases and trims the email
func (r LoginRequest) Normalized() LoginRequest {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return r
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Staff        Profile   `json:"staff"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ========================================
// ADMIN DTOs
// ========================================

var (
	upper = regexp.MustCompile(`[A-Z]`)
	lower = regexp.MustCompile(`[a-z]`)
	digit = regexp.MustCompile(`[0-9]`)
)

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("password is required"),
		validation.Length(8, 128).Error("password must be 8-128 characters"),
		validation.Match(upper).Error("password must contain at least one uppercase letter"),
		validation.Match(lower).Error("password must contain at least one lowercase letter"),
		validation.Match(digit).Error("password must contain at least one number"),
	}
}

type CreateStaffRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	Password    string `json:"password"`
}

func (r CreateStaffRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.EmailFormat.Error("invalid email format")),
		validation.Field(&r.DisplayName, validation.Required.Error("display name is required"), validation.Length(1, 80)),
		validation.Field(&r.Role, validation.Required.Error("role is required"),
			validation.In(RoleBudtender, RoleManager).Error("role must be budtender or manager")),
		validation.Field(&r.Password, passwordRules()...),
	)
}

type UpdateStaffRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *Role   `json:"role"`
	IsActive    *bool   `json:"is_active"`
}

func (r UpdateStaffRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.NilOrNotEmpty.Error("display name cannot be empty"), validation.Length(1, 80)),
		validation.Field(&r.Role, validation.When(r.Role != nil,
			validation.In(RoleBudtender, RoleManager).Error("role must be budtender or manager"))),
	)
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

func (r SetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, passwordRules()...),
	)
}

type ListStaffRequest struct {
	Role     Role
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}
