package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"toko-online/config"
	"toko-online/models"
	"toko-online/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{
		JWTSecret: "test_secret",
		JWTExpiry: "1h",
	}
	os.Exit(m.Run())
}

func identityProbe() (*gin.Engine, *models.Identity) {
	captured := &models.Identity{}

	router := gin.New()
	router.GET("/probe", IdentityMiddleware(), func(c *gin.Context) {
		*captured = CallerIdentity(c)
		c.Status(http.StatusOK)
	})

	return router, captured
}

func TestIdentityMiddlewareNoHeaderIsGuest(t *testing.T) {
	router, captured := identityProbe()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, captured.Authenticated)
	assert.Nil(t, captured.OwnerID())
}

func TestIdentityMiddlewareValidToken(t *testing.T) {
	router, captured := identityProbe()

	token, err := utils.GenerateToken(42, "siti@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, captured.Authenticated)
	assert.Equal(t, 42, captured.UserID)
	assert.Equal(t, "siti@example.com", captured.Email)
	require.NotNil(t, captured.OwnerID())
	assert.Equal(t, 42, *captured.OwnerID())
}

func TestIdentityMiddlewareRejectsBadTokens(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"malformed header", "token-without-scheme"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := identityProbe()

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			req.Header.Set("Authorization", tc.header)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
