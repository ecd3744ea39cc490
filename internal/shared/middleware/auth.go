package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/apperror"
	"guidelight-backend/internal/shared/response"
	"guidelight-backend/pkg/jwt"
)

// TokenValidator is satisfied by *jwt.Manager
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

var (
	errMissingToken = apperror.ErrUnauthorized.WithMessage("Missing authorization header")
	errTokenExpired = apperror.New(401, "TOKEN_EXPIRED", "Access token expired")
	errInvalidToken = apperror.New(401, "INVALID_TOKEN", "Invalid access token")
)

// Auth verifies the bearer access token and puts staff id, role and email
// into the gin context.
func Auth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, errMissingToken)
			return
		}

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Error(c, errTokenExpired)
				return
			}
			response.Error(c, errInvalidToken.Wrap(err))
			return
		}

		staffID, err := uuid.Parse(claims.StaffID)
		if err != nil {
			response.Error(c, errInvalidToken.Wrap(err))
			return
		}

		c.Set(shared.CtxStaffID, staffID)
		c.Set(shared.CtxRole, claims.Role)
		c.Set(shared.CtxEmail, claims.Email)
		c.Next()
	}
}

// RequireRole must run after Auth. action completes the sentence
// "You don't have permission to ...".
func RequireRole(action string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(shared.CtxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Error(c, apperror.Forbidden(action))
	}
}

// DisplayToken guards kiosk routes. An empty secret disables the check
// (development only; config refuses it in production).
func DisplayToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-Display-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			response.Error(c, apperror.ErrUnauthorized.WithMessage("Invalid display token"))
			return
		}
		c.Next()
	}
}

// StaffID reads the authenticated staff id set by Auth
func StaffID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(shared.CtxStaffID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Role reads the authenticated role set by Auth
func Role(c *gin.Context) string {
	return c.GetString(shared.CtxRole)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Actor bundles the authenticated staff id and role for service calls
func Actor(c *gin.Context) (shared.Actor, bool) {
	id, ok := StaffID(c)
	if !ok {
		return shared.Actor{}, false
	}
	return shared.Actor{ID: id, Role: Role(c)}, true
}
