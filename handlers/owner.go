package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/owner"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OwnerHandler serves the owner dashboard and cleaner moderation.
type OwnerHandler struct {
	OwnerService owner.OwnerService
}

func NewOwnerHandler(svc owner.OwnerService) *OwnerHandler {
	return &OwnerHandler{OwnerService: svc}
}

func (h *OwnerHandler) StatsHandler(c *gin.Context) {
	stats, err := h.OwnerService.Stats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err, "Failed to load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *OwnerHandler) CleanersHandler(c *gin.Context) {
	cleaners, err := h.OwnerService.Cleaners(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err, "Failed to list cleaners")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleaners": cleaners})
}

func (h *OwnerHandler) FreezeHandler(c *gin.Context) {
	var req models.ModerationRequest
	if !bindJSON(c, &req) {
		return
	}

	frozen, err := h.OwnerService.Freeze(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		utils.RespondError(c, err, "Failed to freeze cleaner")
		return
	}
	getLogger(c).Info("Cleaner frozen", zap.String("cleanerID", frozen.ID))
	c.JSON(http.StatusOK, gin.H{"cleaner": frozen})
}

func (h *OwnerHandler) UnfreezeHandler(c *gin.Context) {
	unfrozen, err := h.OwnerService.Unfreeze(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to unfreeze cleaner")
		return
	}
	getLogger(c).Info("Cleaner unfrozen", zap.String("cleanerID", unfrozen.ID))
	c.JSON(http.StatusOK, gin.H{"cleaner": unfrozen})
}

func (h *OwnerHandler) WarnHandler(c *gin.Context) {
	var req models.ModerationRequest
	if !bindJSON(c, &req) {
		return
	}

	warning, err := h.OwnerService.Warn(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		utils.RespondError(c, err, "Failed to warn cleaner")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"warning": warning})
}

func (h *OwnerHandler) WarningsHandler(c *gin.Context) {
	warnings, err := h.OwnerService.Warnings(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to list warnings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"warnings": warnings})
}

func (h *OwnerHandler) WithdrawalsHandler(c *gin.Context) {
	withdrawals, err := h.OwnerService.Withdrawals(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err, "Failed to list withdrawals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

func (h *OwnerHandler) BalanceHandler(c *gin.Context) {
	balance, err := h.OwnerService.Balance(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err, "Failed to load balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *OwnerHandler) WithdrawHandler(c *gin.Context) {
	var req models.WithdrawalRequest
	if !bindJSON(c, &req) {
		return
	}

	withdrawal, err := h.OwnerService.Withdraw(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to withdraw funds")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"withdrawal": withdrawal})
}
