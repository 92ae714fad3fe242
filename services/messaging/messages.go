package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"cleanly/database/repository"
	"cleanly/models"
	"cleanly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxMessageLength = 2000
	previewLength    = 100
	broadcastTitle   = "Announcement"
)

// openConversation loads a conversation the caller may read. Owners can read
// every conversation.
func (s *DefaultMessagingService) openConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, *models.User, error) {
	c, err := s.ConversationRepo.GetByID(ctx, conversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, utils.NewNotFoundError("conversation not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load conversation: %w", err)
	}
	caller, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !c.HasParticipant(userID) && caller.Type != models.UserTypeOwner {
		return nil, nil, utils.NewNotFoundError("conversation not found")
	}
	return c, caller, nil
}

func (s *DefaultMessagingService) Messages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	c, _, err := s.openConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	list, err := s.MessageRepo.GetByConversation(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	if err := s.MessageRepo.MarkRead(ctx, c.ID, userID); err != nil {
		utils.GetLogger().Warn("failed to mark messages read", zap.String("conversationID", c.ID), zap.Error(err))
	}
	return list, nil
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return "", utils.NewValidationError("message cannot be empty")
	}
	if n > maxMessageLength {
		return "", utils.NewValidationError("message must be at most %d characters", maxMessageLength)
	}
	return content, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	return string([]rune(content)[:previewLength]) + "…"
}

func (s *DefaultMessagingService) post(ctx context.Context, c *models.Conversation, sender *models.User, content string) (*models.Message, error) {
	m := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: c.ID,
		SenderID:       sender.ID,
		Content:        content,
		ReadBy:         []string{sender.ID},
		CreatedAt:      s.now(),
	}
	if err := s.MessageRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	c.LastMessageAt, c.LastMessagePreview = m.CreatedAt, preview(content)
	if err := s.ConversationRepo.Touch(ctx, c.ID, c.LastMessageAt, c.LastMessagePreview); err != nil {
		utils.GetLogger().Warn("failed to update conversation", zap.String("conversationID", c.ID), zap.Error(err))
	}

	if s.Notifier != nil {
		var recipients []string
		for _, id := range c.ParticipantIDs {
			if id != sender.ID {
				recipients = append(recipients, id)
			}
		}
		title := sender.FullName()
		if c.Title != "" {
			title = c.Title
		}
		if title == "" {
			title = sender.Username
		}
		s.Notifier.PushMany(ctx, recipients, title, preview(content),
			map[string]string{"type": "message", "conversationId": c.ID})
	}
	return m, nil
}

// Send posts a message. Only owners may write into broadcast conversations.
func (s *DefaultMessagingService) Send(ctx context.Context, userID, conversationID, content string) (*models.Message, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	c, caller, err := s.openConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if c.Type == models.ConversationBroadcast && caller.Type != models.UserTypeOwner {
		return nil, utils.NewForbiddenError("only owners can post announcements")
	}
	if c.Type == models.ConversationSupport {
		if err := s.syncSupportOwners(ctx, c); err != nil {
			return nil, err
		}
	}
	return s.post(ctx, c, caller, content)
}

func (s *DefaultMessagingService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	list, err := s.ConversationRepo.GetByParticipant(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load conversations: %w", err)
	}
	if len(list) == 0 {
		return 0, nil
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	n, err := s.MessageRepo.CountUnreadIn(ctx, ids, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

func audienceTypes(audience string) ([]string, bool) {
	switch audience {
	case models.AudienceAll:
		return []string{models.UserTypeHomeowner, models.UserTypeCleaner}, true
	case models.AudienceCleaners:
		return []string{models.UserTypeCleaner}, true
	case models.AudienceHomeowners:
		return []string{models.UserTypeHomeowner}, true
	}
	return nil, false
}

// Broadcast starts an announcement conversation with every user of the
// audience and posts the first message.
func (s *DefaultMessagingService) Broadcast(ctx context.Context, ownerID string, req models.BroadcastRequest) (*models.Conversation, error) {
	types, ok := audienceTypes(req.Audience)
	if !ok {
		return nil, utils.NewValidationError("audience must be one of all, cleaners, homeowners")
	}
	content, err := normalizeContent(req.Content)
	if err != nil {
		return nil, err
	}
	owner, err := s.loadUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Type != models.UserTypeOwner {
		return nil, utils.NewForbiddenError("only owners can broadcast")
	}

	participants := []string{ownerID}
	for _, t := range types {
		users, err := s.Users.GetByType(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("load audience: %w", err)
		}
		for _, u := range users {
			participants = append(participants, u.ID)
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = broadcastTitle
	}
	c := &models.Conversation{
		ID:             uuid.New().String(),
		Type:           models.ConversationBroadcast,
		ParticipantIDs: participants,
		Title:          title,
		CreatedBy:      ownerID,
		LastMessageAt:  s.now(),
	}
	if err := s.ConversationRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create broadcast: %w", err)
	}
	if _, err := s.post(ctx, c, owner, content); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("Broadcast sent",
		zap.String("conversationID", c.ID), zap.String("audience", req.Audience), zap.Int("recipients", len(participants)-1))
	return c, nil
}
