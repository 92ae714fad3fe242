package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cleanly/models"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

type sessions struct {
	valid map[string]string
}

func (s *sessions) ValidateSession(_ context.Context, userID, deviceID, tokenHash string) error {
	if s.valid[userID+"/"+deviceID] == tokenHash {
		return nil
	}
	return utils.NewUnauthorizedError("session expired")
}

func token(t *testing.T, userID, userType, deviceID string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, utils.TokenClaims{UserID: userID, UserType: userType, DeviceID: deviceID}, time.Hour)
	require.NoError(t, err)
	return tok
}

func newRouter(s SessionValidator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(secret, s)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": CurrentUserID(c), "type": CurrentUserType(c), "device": CurrentDeviceID(c)})
	})
	r.GET("/private", handlers...)
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	good := token(t, "u1", models.UserTypeCleaner, "phone")
	stale := token(t, "u1", models.UserTypeCleaner, "tablet")
	s := &sessions{valid: map[string]string{"u1/phone": utils.HashToken(good)}}
	r := newRouter(s)

	tests := []struct {
		name   string
		header string
		device string
		want   int
	}{
		{"no header", "", "", http.StatusUnauthorized},
		{"not bearer", "Token " + good, "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", "", http.StatusUnauthorized},
		{"revoked session", "Bearer " + stale, "", http.StatusUnauthorized},
		{"other device header", "Bearer " + good, "laptop", http.StatusUnauthorized},
		{"valid", "Bearer " + good, "phone", http.StatusOK},
		{"valid without device header", "Bearer " + good, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.device != "" {
				req.Header.Set(DeviceIDHeader, tt.device)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"userID":"u1","type":"cleaner","device":"phone"}`, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tok := token(t, "h1", models.UserTypeHomeowner, "web")
	s := &sessions{valid: map[string]string{"h1/web": utils.HashToken(tok)}}

	allowed := newRouter(s, RequireRole(models.UserTypeHomeowner, models.UserTypeOwner))
	denied := newRouter(s, RequireRole(models.UserTypeOwner))

	for _, tc := range []struct {
		r    *gin.Engine
		want int
	}{{allowed, http.StatusOK}, {denied, http.StatusForbidden}} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		tc.r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(2)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code, "other clients have their own bucket")
}

func TestDeviceDetailsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(DeviceDetailsMiddleware())
	var got models.Device
	r.GET("/", func(c *gin.Context) { got = CurrentDevice(c) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, utils.DefaultDeviceID, got.DeviceID)
	assert.Equal(t, "192.0.2.10", got.IP)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DeviceIDHeader, "ios-123")
	req.Header.Set(DeviceNameHeader, "iPhone")
	req.Header.Set("X-Real-IP", "203.0.113.9")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "ios-123", got.DeviceID)
	assert.Equal(t, "iPhone", got.DeviceName)
	assert.Equal(t, "203.0.113.9", got.IP)
}
