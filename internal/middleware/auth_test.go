package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pinkblueberry/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(jwtService *jwt.Service) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var seen uuid.UUID
	r := gin.New()
	r.GET("/protected", Auth(jwtService), func(c *gin.Context) {
		seen = c.MustGet("customer_id").(uuid.UUID)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestAuth_ValidBearerToken(t *testing.T) {
	jwtService := jwt.New("test-secret", time.Hour)
	customerID := uuid.New()
	token, err := jwtService.GenerateToken(customerID, "customer")
	require.NoError(t, err)

	r, seen := authRouter(jwtService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, customerID, *seen)
}

func TestAuth_TokenViaQueryParam(t *testing.T) {
	jwtService := jwt.New("test-secret", time.Hour)
	token, err := jwtService.GenerateToken(uuid.New(), "customer")
	require.NoError(t, err)

	r, _ := authRouter(jwtService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_MissingToken(t *testing.T) {
	r, _ := authRouter(jwt.New("test-secret", time.Hour))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	expired := jwt.New("test-secret", -time.Minute)
	token, err := expired.GenerateToken(uuid.New(), "customer")
	require.NoError(t, err)

	r, _ := authRouter(jwt.New("test-secret", time.Hour))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	other := jwt.New("other-secret", time.Hour)
	token, err := other.GenerateToken(uuid.New(), "customer")
	require.NoError(t, err)

	r, _ := authRouter(jwt.New("test-secret", time.Hour))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) { c.Set("role", "customer"); c.Next() }, AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
