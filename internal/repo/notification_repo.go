// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for notifications.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
)

// CreateNotification inserts a notification for userID. Data carries an
// opaque JSON payload already encoded by the service layer.
func CreateNotification(ctx context.Context, db *gorm.DB, userID int64, message, typ, data string) (*domain.Notification, error) {
	n := &domain.Notification{
		UserID:    userID,
		Message:   message,
		Type:      typ,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// GetNotification fetches a notification by ID scoped to its owner, or
// ErrNotFound when missing or owned by someone else.
func GetNotification(ctx context.Context, db *gorm.DB, id, userID int64) (*domain.Notification, error) {
	var n domain.Notification
	err := db.WithContext(ctx).
		First(&n, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotifications returns up to limit notifications of userID, newest
// first. When unreadOnly is set, read rows are filtered out.
func ListNotifications(ctx context.Context, db *gorm.DB, userID int64, limit int, unreadOnly bool) ([]domain.Notification, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []domain.Notification
	err := q.Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkNotificationRead flips one notification to read, enforcing ownership.
// It returns ErrNotFound when no matching row exists. Marking an
// already-read notification succeeds without touching the row count check
// because the WHERE clause matches the row regardless of its read state.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, userID int64) error {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// GORM skips the UPDATE when the value is unchanged only for
		// struct updates; a column update always runs, so zero rows
		// means the notification does not exist for this user.
		var n int64
		if err := db.WithContext(ctx).
			Model(&domain.Notification{}).
			Where("id = ? AND user_id = ?", id, userID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// MarkAllNotificationsRead flips every unread notification of userID to
// read and returns the number of rows changed.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountUnreadNotifications returns how many unread notifications userID has.
func CountUnreadNotifications(ctx context.Context, db *gorm.DB, userID int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// DeleteNotification removes one notification, enforcing ownership. It
// returns ErrNotFound when no matching row exists.
func DeleteNotification(ctx context.Context, db *gorm.DB, id, userID int64) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
