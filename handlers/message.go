package handlers

import (
	"net/http"

	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/messaging"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	MessagingService messaging.MessagingService
}

func NewMessageHandler(svc messaging.MessagingService) *MessageHandler {
	return &MessageHandler{MessagingService: svc}
}

type startConversationRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
	AppointmentID string `json:"appointmentId"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (h *MessageHandler) ConversationsHandler(c *gin.Context) {
	convs, err := h.MessagingService.Conversations(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to list conversations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (h *MessageHandler) StartConversationHandler(c *gin.Context) {
	var req startConversationRequest
	if !bindJSON(c, &req) {
		return
	}

	conv, err := h.MessagingService.StartDirect(c.Request.Context(), middleware.CurrentUserID(c), req.ParticipantID, req.AppointmentID)
	if err != nil {
		utils.RespondError(c, err, "Failed to start conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func (h *MessageHandler) SupportHandler(c *gin.Context) {
	conv, err := h.MessagingService.Support(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to open support conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func (h *MessageHandler) MessagesHandler(c *gin.Context) {
	msgs, err := h.MessagingService.Messages(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err, "Failed to load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *MessageHandler) SendMessageHandler(c *gin.Context) {
	var req sendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.MessagingService.Send(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Content)
	if err != nil {
		utils.RespondError(c, err, "Failed to send message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *MessageHandler) UnreadCountHandler(c *gin.Context) {
	count, err := h.MessagingService.UnreadCount(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to count unread messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

func (h *MessageHandler) BroadcastHandler(c *gin.Context) {
	var req models.BroadcastRequest
	if !bindJSON(c, &req) {
		return
	}

	conv, err := h.MessagingService.Broadcast(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		utils.RespondError(c, err, "Failed to send broadcast")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation": conv})
}
