package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/review"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	ReviewService review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{ReviewService: svc}
}

func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	var req models.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.ReviewService.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to save review")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": created})
}

func (h *ReviewHandler) CleanerReviewsHandler(c *gin.Context) {
	reviews, err := h.ReviewService.ListByCleaner(c.Request.Context(), c.Param("cleanerID"))
	if err != nil {
		utils.RespondError(c, err, "Failed to list reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
