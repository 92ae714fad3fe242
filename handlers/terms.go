package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/terms"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
)

type TermsHandler struct {
	TermsService terms.TermsService
}

func NewTermsHandler(svc terms.TermsService) *TermsHandler {
	return &TermsHandler{TermsService: svc}
}

// termsType reads ?type=, defaulting to the caller's own user type.
func termsType(c *gin.Context) string {
	if t := c.Query("type"); t != "" {
		return t
	}
	return middleware.CurrentUserType(c)
}

func (h *TermsHandler) CurrentHandler(c *gin.Context) {
	current, err := h.TermsService.Current(c.Request.Context(), termsType(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to load terms")
		return
	}
	c.JSON(http.StatusOK, gin.H{"terms": current})
}

func (h *TermsHandler) PublishHandler(c *gin.Context) {
	var req models.PublishTermsRequest
	if !bindJSON(c, &req) {
		return
	}

	published, err := h.TermsService.Publish(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to publish terms")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"terms": published})
}

func (h *TermsHandler) HistoryHandler(c *gin.Context) {
	history, err := h.TermsService.History(c.Request.Context(), termsType(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to load terms history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"terms": history})
}

type acceptTermsRequest struct {
	TermsID string `json:"termsId" binding:"required"`
}

func (h *TermsHandler) AcceptHandler(c *gin.Context) {
	var req acceptTermsRequest
	if !bindJSON(c, &req) {
		return
	}

	acceptance, err := h.TermsService.Accept(c.Request.Context(), middleware.CurrentUserID(c), req.TermsID, middleware.ClientIP(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to accept terms")
		return
	}
	c.JSON(http.StatusOK, gin.H{"acceptance": acceptance})
}

func (h *TermsHandler) StatusHandler(c *gin.Context) {
	status, err := h.TermsService.Status(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to load terms status")
		return
	}
	c.JSON(http.StatusOK, status)
}
