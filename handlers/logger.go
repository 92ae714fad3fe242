package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the process logger tagged with the caller and route.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger().With(zap.String("path", c.FullPath()))
	if userID := middleware.CurrentUserID(c); userID != "" {
		logger = logger.With(zap.String("userID", userID))
	}
	return logger
}

// bindJSON decodes the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		getLogger(c).Debug("Invalid request body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}
