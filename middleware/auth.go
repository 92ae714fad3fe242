package middleware

import (
	"context"
	"net/http"
	"strings"

	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionValidator confirms a token hash is still the live session of a
// user's device.
type SessionValidator interface {
	ValidateSession(ctx context.Context, userID, deviceID, tokenHash string) error
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: msg})
}

// JWTAuthMiddleware verifies the bearer token and the device session it
// belongs to, then sets userID, userType and deviceID on the context.
func JWTAuthMiddleware(secret []byte, sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			unauthorized(c, "Missing or invalid Authorization header")
			return
		}

		claims, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			unauthorized(c, "Invalid token")
			return
		}
		deviceID := claims.DeviceID
		if deviceID == "" {
			deviceID = utils.DefaultDeviceID
		}

		// A device header, when sent, must name the device the token was issued to.
		if header := c.GetHeader(DeviceIDHeader); header != "" && header != deviceID {
			logger.Warn("device mismatch", zap.String("userID", claims.UserID), zap.String("deviceID", header))
			unauthorized(c, "Token was issued to another device")
			return
		}

		if err := sessions.ValidateSession(c.Request.Context(), claims.UserID, deviceID, utils.HashToken(tokenString)); err != nil {
			if utils.IsCode(err, utils.CodeUnauthorized) || utils.IsCode(err, utils.CodeNotFound) {
				unauthorized(c, "Session expired, please log in again")
				return
			}
			utils.RespondError(c, err, "Failed to validate session")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserType, claims.UserType)
		c.Set(ContextDeviceID, deviceID)
		c.Next()
	}
}

// RequireRole lets only the given user types through. It must run after
// JWTAuthMiddleware.
func RequireRole(types ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := CurrentUserType(c)
		for _, t := range types {
			if t == userType {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Error: "You do not have access to this resource"})
	}
}
