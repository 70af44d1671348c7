// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for messages
// inside direct conversations.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
)

// CreateDirectMessage inserts a message from senderID into a conversation
// with a UTC timestamp and IsRead=false. Callers combine it with
// TouchConversation inside a transaction so the thread moves to the top of
// the sender's and recipient's listings atomically.
func CreateDirectMessage(ctx context.Context, db *gorm.DB, conversationID, senderID int64, message string) (*domain.DirectMessage, error) {
	m := &domain.DirectMessage{
		ConversationID: conversationID,
		SenderID:       senderID,
		Message:        message,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListDirectMessages returns up to limit messages of a conversation in
// ascending creation order. When sinceID > 0 only messages with a larger ID
// are returned. Without sinceID the newest limit messages are selected and
// reversed into chronological order.
func ListDirectMessages(ctx context.Context, db *gorm.DB, conversationID int64, limit int, sinceID int64) ([]domain.DirectMessage, error) {
	q := db.WithContext(ctx).Where("conversation_id = ?", conversationID)

	if sinceID > 0 {
		var out []domain.DirectMessage
		err := q.Where("id > ?", sinceID).
			Order("id asc").
			Limit(limit).
			Find(&out).Error
		return out, err
	}

	var out []domain.DirectMessage
	err := q.Order("id desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// MarkConversationRead flips every unread message NOT sent by readerID to
// read. Marking an already-read conversation is a no-op; the returned count
// is the number of rows actually flipped.
func MarkConversationRead(ctx context.Context, db *gorm.DB, conversationID, readerID int64) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.DirectMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountUnreadInConversation returns how many messages in one conversation
// are unread from readerID's perspective.
func CountUnreadInConversation(ctx context.Context, db *gorm.DB, conversationID, readerID int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.DirectMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Count(&n).Error
	return n, err
}

// LastDirectMessage returns the newest message of a conversation, or
// ErrNotFound for an empty thread.
func LastDirectMessage(ctx context.Context, db *gorm.DB, conversationID int64) (*domain.DirectMessage, error) {
	var m domain.DirectMessage
	err := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id desc").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
