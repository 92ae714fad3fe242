package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/servicearea"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ServiceAreaHandler struct {
	AreaService servicearea.ServiceAreaService
}

func NewServiceAreaHandler(svc servicearea.ServiceAreaService) *ServiceAreaHandler {
	return &ServiceAreaHandler{AreaService: svc}
}

func (h *ServiceAreaHandler) GetConfigHandler(c *gin.Context) {
	cfg, err := h.AreaService.GetConfig(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err, "Failed to load service area")
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

func (h *ServiceAreaHandler) UpdateConfigHandler(c *gin.Context) {
	var req models.ServiceAreaConfig
	if !bindJSON(c, &req) {
		return
	}

	cfg, changed, err := h.AreaService.UpdateConfig(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to update service area")
		return
	}
	getLogger(c).Info("Service area updated", zap.Bool("enabled", cfg.Enabled), zap.Int("homesUpdated", changed))
	c.JSON(http.StatusOK, gin.H{"config": cfg, "homesUpdated": changed})
}

func (h *ServiceAreaHandler) CheckHandler(c *gin.Context) {
	var req models.Address
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.AreaService.Check(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to check address")
		return
	}
	c.JSON(http.StatusOK, result)
}
