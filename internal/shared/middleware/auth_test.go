package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidelight-backend/internal/shared"
	"guidelight-backend/internal/shared/response"
	"guidelight-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	authed := r.Group("/", Auth(tokens))
	authed.GET("/me", func(c *gin.Context) {
		id, _ := StaffID(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "role": Role(c)})
	})
	authed.GET("/admin", RequireRole("manage staff", shared.RoleManager), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/display", DisplayToken("kiosk-secret"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidTokenSetsContext(t *testing.T) {
	tokens := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	staffID := uuid.New()
	token, err := tokens.GenerateAccessToken(staffID.String(), "bud@guidelight.test", shared.RoleBudtender)
	require.NoError(t, err)

	w := do(newRouter(tokens), http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, staffID.String(), body["id"])
	assert.Equal(t, shared.RoleBudtender, body["role"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuth_RejectsMissingExpiredAndRefreshTokens(t *testing.T) {
	tokens := jwt.NewManager("test-secret", -time.Minute, time.Hour)
	r := newRouter(tokens)

	w := do(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, _ := tokens.GenerateAccessToken(uuid.NewString(), "a@b.c", shared.RoleManager)
	w = do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + expired})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var env response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "TOKEN_EXPIRED", env.Error.Code)

	refresh, _ := tokens.GenerateRefreshToken(uuid.NewString())
	w = do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_ForbidsBudtender(t *testing.T) {
	tokens := jwt.NewManager("test-secret", time.Hour, time.Hour)
	r := newRouter(tokens)

	bud, _ := tokens.GenerateAccessToken(uuid.NewString(), "bud@x.y", shared.RoleBudtender)
	w := do(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + bud})
	require.Equal(t, http.StatusForbidden, w.Code)

	var env response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "You don't have permission to manage staff", env.Error.Message)

	mgr, _ := tokens.GenerateAccessToken(uuid.NewString(), "mgr@x.y", shared.RoleManager)
	w = do(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + mgr})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDisplayToken(t *testing.T) {
	r := newRouter(jwt.NewManager("s", time.Hour, time.Hour))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/display", nil).Code)
	assert.Equal(t, http.StatusNoContent,
		do(r, http.MethodGet, "/display", map[string]string{"X-Display-Token": "kiosk-secret"}).Code)
}
