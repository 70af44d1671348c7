// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for room messages.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
)

// CreateRoomMessage inserts a message from userID into roomID with a UTC
// timestamp. It does not bump the room's activity; callers combine it with
// TouchRoom inside a transaction.
func CreateRoomMessage(ctx context.Context, db *gorm.DB, roomID, userID int64, message string) (*domain.RoomMessage, error) {
	m := &domain.RoomMessage{
		RoomID:    roomID,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListRoomMessages returns up to limit messages of a room in ascending
// creation order. When sinceID > 0 only messages with a larger ID are
// returned, which lets polling clients fetch deltas cheaply.
//
// Without sinceID the newest limit messages are selected and then reversed
// so the caller always receives chronological order.
func ListRoomMessages(ctx context.Context, db *gorm.DB, roomID int64, limit int, sinceID int64) ([]domain.RoomMessage, error) {
	q := db.WithContext(ctx).Where("room_id = ?", roomID)

	if sinceID > 0 {
		var out []domain.RoomMessage
		err := q.Where("id > ?", sinceID).
			Order("id asc").
			Limit(limit).
			Find(&out).Error
		return out, err
	}

	var out []domain.RoomMessage
	err := q.Order("id desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	reverseRoomMessages(out)
	return out, nil
}

// CountRoomMessages returns the total number of messages in a room.
func CountRoomMessages(ctx context.Context, db *gorm.DB, roomID int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.RoomMessage{}).
		Where("room_id = ?", roomID).
		Count(&n).Error
	return n, err
}

func reverseRoomMessages(ms []domain.RoomMessage) {
	for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
		ms[i], ms[j] = ms[j], ms[i]
	}
}
