package middleware

import (
	"net"
	"strings"
	"time"

	"cleanly/models"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
)

// Device headers sent by the mobile and web clients.
const (
	DeviceIDHeader   = "X-Device-ID"
	DeviceNameHeader = "X-Device-Name"
)

// ClientIP prefers proxy headers over the socket address.
func ClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}

// DeviceDetailsMiddleware reads the device headers into a models.Device.
// Clients that send no device id are treated as the web app.
func DeviceDetailsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.GetHeader(DeviceIDHeader))
		if deviceID == "" {
			deviceID = utils.DefaultDeviceID
		}
		c.Set(ContextDevice, models.Device{
			DeviceID:   deviceID,
			DeviceName: strings.TrimSpace(c.GetHeader(DeviceNameHeader)),
			IP:         ClientIP(c),
			LastLogin:  time.Now().UTC(),
		})
		c.Next()
	}
}

// CurrentDevice returns the device set by DeviceDetailsMiddleware, falling
// back to the headers when the middleware did not run.
func CurrentDevice(c *gin.Context) models.Device {
	if v, ok := c.Get(ContextDevice); ok {
		if d, ok := v.(models.Device); ok {
			return d
		}
	}
	deviceID := c.GetHeader(DeviceIDHeader)
	if deviceID == "" {
		deviceID = utils.DefaultDeviceID
	}
	return models.Device{DeviceID: deviceID, DeviceName: c.GetHeader(DeviceNameHeader), IP: ClientIP(c), LastLogin: time.Now().UTC()}
}
