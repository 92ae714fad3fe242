package middleware

import "github.com/gin-gonic/gin"

// Context keys set by the auth and device middleware.
const (
	ContextUserID   = "userID"
	ContextUserType = "userType"
	ContextDeviceID = "deviceID"
	ContextDevice   = "device"
)

func getString(c *gin.Context, key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// CurrentUserID is the authenticated user, or "" on public routes.
func CurrentUserID(c *gin.Context) string { return getString(c, ContextUserID) }

func CurrentUserType(c *gin.Context) string { return getString(c, ContextUserType) }

func CurrentDeviceID(c *gin.Context) string { return getString(c, ContextDeviceID) }
