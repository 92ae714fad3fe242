package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/services/home"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
)

type PreferredCleanerHandler struct {
	HomeService home.HomeService
}

func NewPreferredCleanerHandler(svc home.HomeService) *PreferredCleanerHandler {
	return &PreferredCleanerHandler{HomeService: svc}
}

type preferredCleanerRequest struct {
	CleanerID string `json:"cleanerId" binding:"required"`
}

func (h *PreferredCleanerHandler) ListHandler(c *gin.Context) {
	cleaners, err := h.HomeService.PreferredCleaners(c.Request.Context(), middleware.CurrentUserID(c), c.Param("homeID"))
	if err != nil {
		utils.RespondError(c, err, "Failed to list preferred cleaners")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleaners": cleaners})
}

func (h *PreferredCleanerHandler) AddHandler(c *gin.Context) {
	var req preferredCleanerRequest
	if !bindJSON(c, &req) {
		return
	}

	cleaners, err := h.HomeService.AddPreferredCleaner(c.Request.Context(), middleware.CurrentUserID(c), c.Param("homeID"), req.CleanerID)
	if err != nil {
		utils.RespondError(c, err, "Failed to add preferred cleaner")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleaners": cleaners})
}

func (h *PreferredCleanerHandler) RemoveHandler(c *gin.Context) {
	cleaners, err := h.HomeService.RemovePreferredCleaner(c.Request.Context(), middleware.CurrentUserID(c), c.Param("homeID"), c.Param("cleanerID"))
	if err != nil {
		utils.RespondError(c, err, "Failed to remove preferred cleaner")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleaners": cleaners})
}
