// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// assistant-backed chat models.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
)

// CreateAIConversation inserts a conversation owned by userID. TopicID may
// be zero when the conversation is not bound to a context document.
func CreateAIConversation(ctx context.Context, db *gorm.DB, userID, topicID int64, title string) (*domain.AIConversation, error) {
	now := time.Now().UTC()
	c := &domain.AIConversation{
		UserID:    userID,
		TopicID:   topicID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetAIConversation fetches a conversation by ID scoped to its owner, or
// ErrNotFound when missing or owned by someone else.
func GetAIConversation(ctx context.Context, db *gorm.DB, id, userID int64) (*domain.AIConversation, error) {
	var c domain.AIConversation
	err := db.WithContext(ctx).
		First(&c, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListAIConversations returns all conversations of userID, ordered by last
// activity descending.
func ListAIConversations(ctx context.Context, db *gorm.DB, userID int64) ([]domain.AIConversation, error) {
	var out []domain.AIConversation
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&out).Error
	return out, err
}

// TouchAIConversation bumps a conversation's UpdatedAt.
func TouchAIConversation(ctx context.Context, db *gorm.DB, id int64, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.AIConversation{}).
		Where("id = ?", id).
		Update("updated_at", at.UTC()).Error
}

// CreateAIMessage appends one utterance to a conversation.
func CreateAIMessage(ctx context.Context, db *gorm.DB, conversationID, userID int64, message string, isAI bool) (*domain.AIMessage, error) {
	m := &domain.AIMessage{
		ConversationID: conversationID,
		UserID:         userID,
		Message:        message,
		IsAI:           isAI,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListAIMessages returns every message of a conversation in chronological
// order.
func ListAIMessages(ctx context.Context, db *gorm.DB, conversationID int64) ([]domain.AIMessage, error) {
	var out []domain.AIMessage
	err := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id asc").
		Find(&out).Error
	return out, err
}
