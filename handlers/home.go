package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/home"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HomeHandler serves the homeowner's user-info endpoints.
type HomeHandler struct {
	HomeService home.HomeService
}

func NewHomeHandler(homeService home.HomeService) *HomeHandler {
	return &HomeHandler{HomeService: homeService}
}

func (h *HomeHandler) DashboardHandler(c *gin.Context) {
	dashboard, err := h.HomeService.Dashboard(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *HomeHandler) CreateHomeHandler(c *gin.Context) {
	var req models.HomeRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.HomeService.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to create home")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"home": created})
}

func (h *HomeHandler) UpdateHomeHandler(c *gin.Context) {
	var req models.HomeUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.HomeService.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("homeID"), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to update home")
		return
	}
	c.JSON(http.StatusOK, gin.H{"home": updated})
}

func (h *HomeHandler) DeleteHomeHandler(c *gin.Context) {
	result, err := h.HomeService.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("homeID"))
	if err != nil {
		utils.RespondError(c, err, "Failed to delete home")
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadPhotoHandler expects a multipart form with a "photo" file.
func (h *HomeHandler) UploadPhotoHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "photo file not provided")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		getLogger(c).Error("Failed to open uploaded photo", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "could not read photo")
		return
	}
	defer file.Close()

	updated, err := h.HomeService.UploadPhoto(c.Request.Context(), middleware.CurrentUserID(c), c.Param("homeID"), file, fileHeader.Filename)
	if err != nil {
		utils.RespondError(c, err, "Failed to upload photo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"home": updated})
}
