package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/perks"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
)

type PerksHandler struct {
	PerksService perks.PerksService
}

func NewPerksHandler(svc perks.PerksService) *PerksHandler {
	return &PerksHandler{PerksService: svc}
}

type tierConfigRequest struct {
	Tiers []models.Tier `json:"tiers" binding:"required"`
}

func (h *PerksHandler) GetConfigHandler(c *gin.Context) {
	cfg, err := h.PerksService.GetConfig(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err, "Failed to load tiers")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *PerksHandler) UpdateConfigHandler(c *gin.Context) {
	var req tierConfigRequest
	if !bindJSON(c, &req) {
		return
	}

	cfg, err := h.PerksService.UpdateConfig(c.Request.Context(), middleware.CurrentUserID(c), req.Tiers)
	if err != nil {
		utils.RespondError(c, err, "Failed to update tiers")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *PerksHandler) MyTierHandler(c *gin.Context) {
	progress, err := h.PerksService.Progress(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to load tier")
		return
	}
	c.JSON(http.StatusOK, progress)
}
