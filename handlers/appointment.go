package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/appointment"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	AppointmentService appointment.AppointmentService
}

func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{AppointmentService: svc}
}

func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	var req models.CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.AppointmentService.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to create appointment")
		return
	}
	getLogger(c).Info("Appointment booked", zap.String("appointmentID", appt.ID), zap.String("date", appt.Date))
	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) ListByHomeHandler(c *gin.Context) {
	appts, err := h.AppointmentService.ListByHome(c.Request.Context(), middleware.CurrentUserID(c), c.Param("homeID"))
	if err != nil {
		utils.RespondError(c, err, "Failed to list appointments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

type sheetsRequest struct {
	BringSheets *bool `json:"bringSheets"`
}

type towelsRequest struct {
	BringTowels *bool `json:"bringTowels"`
}

type timeWindowRequest struct {
	TimeToBeCompleted string `json:"timeToBeCompleted" binding:"required"`
}

func (h *AppointmentHandler) UpdateSheetsHandler(c *gin.Context) {
	var req sheetsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.BringSheets == nil {
		utils.JSONError(c, http.StatusBadRequest, "bringSheets is required")
		return
	}

	appt, err := h.AppointmentService.SetSheets(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), *req.BringSheets)
	if err != nil {
		utils.RespondError(c, err, "Failed to update sheets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) UpdateTowelsHandler(c *gin.Context) {
	var req towelsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.BringTowels == nil {
		utils.JSONError(c, http.StatusBadRequest, "bringTowels is required")
		return
	}

	appt, err := h.AppointmentService.SetTowels(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), *req.BringTowels)
	if err != nil {
		utils.RespondError(c, err, "Failed to update towels")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) UpdateTimeHandler(c *gin.Context) {
	var req timeWindowRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.AppointmentService.SetTimeWindow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.TimeToBeCompleted)
	if err != nil {
		utils.RespondError(c, err, "Failed to update time window")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) CancelAppointmentHandler(c *gin.Context) {
	result, err := h.AppointmentService.Cancel(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to cancel appointment")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AppointmentHandler) PaymentIntentHandler(c *gin.Context) {
	resp, err := h.AppointmentService.CreatePaymentIntent(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to create payment intent")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentHandler) ConfirmPaymentHandler(c *gin.Context) {
	appt, err := h.AppointmentService.ConfirmPayment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to confirm payment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}
