// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for direct
// conversations and their messages.
//
// Conversations store the participant pair canonically (user_one < user_two)
// so the unique index enforces exactly one thread per unordered pair. The
// CanonicalPair helper performs the ordering; every lookup and insert in
// this file expects already-canonical arguments.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
)

// CanonicalPair orders two user IDs so the smaller one comes first.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// CreateConversation inserts a conversation row for the canonical pair
// (userOne, userTwo). CreatedAt and UpdatedAt are set to the same UTC instant.
func CreateConversation(ctx context.Context, db *gorm.DB, userOne, userTwo int64) (*domain.Conversation, error) {
	now := time.Now().UTC()
	c := &domain.Conversation{
		UserOne:   userOne,
		UserTwo:   userTwo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetConversation fetches a conversation by ID, or ErrNotFound if missing.
func GetConversation(ctx context.Context, db *gorm.DB, id int64) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversationByPair fetches the conversation for the canonical pair
// (userOne, userTwo), or ErrNotFound when the two users have never spoken.
func GetConversationByPair(ctx context.Context, db *gorm.DB, userOne, userTwo int64) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		First(&c, "user_one = ? AND user_two = ?", userOne, userTwo).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListUserConversations returns every conversation userID participates in,
// ordered by last activity descending. A single OR query does the matching;
// the database handles the sort.
func ListUserConversations(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("user_one = ? OR user_two = ?", userID, userID).
		Order("updated_at desc").
		Find(&out).Error
	return out, err
}

// TouchConversation bumps a conversation's UpdatedAt. Missing rows are
// ignored.
func TouchConversation(ctx context.Context, db *gorm.DB, id int64, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", at.UTC()).Error
}
