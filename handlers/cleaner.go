package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/services/cleaner"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CleanerHandler serves the employee-info endpoints.
type CleanerHandler struct {
	CleanerService cleaner.CleanerService
}

func NewCleanerHandler(svc cleaner.CleanerService) *CleanerHandler {
	return &CleanerHandler{CleanerService: svc}
}

func (h *CleanerHandler) DashboardHandler(c *gin.Context) {
	dashboard, err := h.CleanerService.Dashboard(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *CleanerHandler) AvailableJobsHandler(c *gin.Context) {
	jobs, err := h.CleanerService.Available(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to list available jobs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": jobs})
}

type jobRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
}

func (h *CleanerHandler) RequestJobHandler(c *gin.Context) {
	var req jobRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.CleanerService.RequestJob(c.Request.Context(), middleware.CurrentUserID(c), req.AppointmentID)
	if err != nil {
		utils.RespondError(c, err, "Failed to request job")
		return
	}
	getLogger(c).Info("Job requested",
		zap.String("appointmentID", req.AppointmentID),
		zap.Bool("autoApproved", result.AutoApproved))
	c.JSON(http.StatusCreated, result)
}

func (h *CleanerHandler) CancelRequestHandler(c *gin.Context) {
	if err := h.CleanerService.CancelRequest(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err, "Failed to cancel request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

func (h *CleanerHandler) LeaveHandler(c *gin.Context) {
	appt, err := h.CleanerService.Leave(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to leave appointment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *CleanerHandler) CompleteHandler(c *gin.Context) {
	result, err := h.CleanerService.Complete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to complete appointment")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CleanerHandler) PayoutsHandler(c *gin.Context) {
	summary, err := h.CleanerService.PayoutSummary(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to load payouts")
		return
	}
	c.JSON(http.StatusOK, summary)
}

type stripeAccountRequest struct {
	StripeAccountID string `json:"stripeAccountId" binding:"required"`
}

func (h *CleanerHandler) StripeAccountHandler(c *gin.Context) {
	var req stripeAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.CleanerService.SetStripeAccount(c.Request.Context(), middleware.CurrentUserID(c), req.StripeAccountID)
	if err != nil {
		utils.RespondError(c, err, "Failed to save Stripe account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stripeAccountId": u.StripeAccountID})
}

// PendingRequestHandler lets homeowners decide on cleaners' job requests.
type PendingRequestHandler struct {
	RequestService cleaner.RequestService
}

func NewPendingRequestHandler(svc cleaner.RequestService) *PendingRequestHandler {
	return &PendingRequestHandler{RequestService: svc}
}

func (h *PendingRequestHandler) ListHandler(c *gin.Context) {
	requests, err := h.RequestService.ListPending(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to list requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *PendingRequestHandler) ApproveHandler(c *gin.Context) {
	appt, err := h.RequestService.Approve(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to approve request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *PendingRequestHandler) DenyHandler(c *gin.Context) {
	if err := h.RequestService.Deny(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err, "Failed to deny request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request denied"})
}
