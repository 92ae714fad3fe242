package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/user"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	UserService user.UserService
}

func NewAuthHandler(userService user.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.UserService.Register(c.Request.Context(), req, middleware.CurrentDevice(c))
	if err != nil {
		utils.RespondError(c, err, "Registration failed")
		return
	}
	getLogger(c).Info("User registered", zap.String("newUserID", resp.ID), zap.String("type", resp.Type))
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.UserService.Login(c.Request.Context(), req, middleware.CurrentDevice(c))
	if err != nil {
		utils.RespondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if err := h.UserService.Logout(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentDeviceID(c)); err != nil {
		utils.RespondError(c, err, "Logout failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) MeHandler(c *gin.Context) {
	profile, err := h.UserService.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

type fcmTokenRequest struct {
	FCMToken string `json:"fcmToken" binding:"required"`
}

func (h *AuthHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req fcmTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.UpdateFCMToken(c.Request.Context(), middleware.CurrentUserID(c), req.FCMToken); err != nil {
		utils.RespondError(c, err, "Failed to update push token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push token updated"})
}
