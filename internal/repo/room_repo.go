// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for rooms and
// room membership.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a room or membership row is not found, functions return
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.RoomService) which enforces membership rules, moderator
// checks, and cross-aggregate behavior such as notification fan-out.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateRoom inserts a new Room row created by userID. CreatedAt and
// UpdatedAt are set to the same UTC instant.
//
// On success, it returns the persisted Room. On failure, it returns a DB error.
func CreateRoom(ctx context.Context, db *gorm.DB, userID int64, name, description string, isPrivate bool) (*domain.Room, error) {
	now := time.Now().UTC()
	r := &domain.Room{
		Name:        name,
		Description: description,
		CreatedBy:   userID,
		IsPrivate:   isPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRoom fetches a single room by ID, or ErrNotFound if missing.
func GetRoom(ctx context.Context, db *gorm.DB, roomID int64) (*domain.Room, error) {
	var r domain.Room
	err := db.WithContext(ctx).First(&r, "id = ?", roomID).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRoom updates the mutable fields of a room. It returns ErrNotFound
// when the room does not exist.
func UpdateRoom(ctx context.Context, db *gorm.DB, roomID int64, name, description string, isPrivate bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]any{
			"name":        name,
			"description": description,
			"is_private":  isPrivate,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchRoom bumps a room's UpdatedAt so listings sorted by activity move
// the room to the front. Missing rooms are ignored.
func TouchRoom(ctx context.Context, db *gorm.DB, roomID int64, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id = ?", roomID).
		Update("updated_at", at.UTC()).Error
}

// DeleteRoom removes a room together with its messages and memberships.
// The three deletes run inside a single transaction so a partial failure
// leaves no orphaned rows. It returns ErrNotFound when the room does not
// exist.
func DeleteRoom(ctx context.Context, db *gorm.DB, roomID int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomMember{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", roomID).Delete(&domain.Room{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListUserRooms returns all rooms userID belongs to, ordered by last
// activity descending. It returns an empty slice if the user is in no rooms.
func ListUserRooms(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Room, error) {
	var out []domain.Room
	err := db.WithContext(ctx).
		Joins("JOIN room_members rm ON rm.room_id = rooms.id").
		Where("rm.user_id = ?", userID).
		Order("rooms.updated_at desc").
		Find(&out).Error
	return out, err
}

// ListPublicRooms returns all rooms that are not private, ordered by last
// activity descending.
func ListPublicRooms(ctx context.Context, db *gorm.DB) ([]domain.Room, error) {
	var out []domain.Room
	err := db.WithContext(ctx).
		Where("is_private = ?", false).
		Order("updated_at desc").
		Find(&out).Error
	return out, err
}

// AddMember inserts a membership row for (roomID, userID). The unique index
// over the pair means a second insert for the same pair fails; callers that
// want idempotent joins should check IsMember first.
func AddMember(ctx context.Context, db *gorm.DB, roomID, userID int64, isModerator bool) (*domain.RoomMember, error) {
	m := &domain.RoomMember{
		RoomID:      roomID,
		UserID:      userID,
		IsModerator: isModerator,
		JoinedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// RemoveMember deletes the membership row for (roomID, userID) and reports
// whether a row was actually removed.
func RemoveMember(ctx context.Context, db *gorm.DB, roomID, userID int64) (bool, error) {
	res := db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&domain.RoomMember{})
	return res.RowsAffected > 0, res.Error
}

// GetMember fetches the membership row for (roomID, userID), or ErrNotFound.
func GetMember(ctx context.Context, db *gorm.DB, roomID, userID int64) (*domain.RoomMember, error) {
	var m domain.RoomMember
	err := db.WithContext(ctx).
		First(&m, "room_id = ? AND user_id = ?", roomID, userID).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMembers returns every membership row of a room, ordered by join time
// ascending (creator first under normal flows).
func ListMembers(ctx context.Context, db *gorm.DB, roomID int64) ([]domain.RoomMember, error) {
	var out []domain.RoomMember
	err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("joined_at asc").
		Find(&out).Error
	return out, err
}

// IsMember reports whether userID has a membership row in roomID.
func IsMember(ctx context.Context, db *gorm.DB, roomID, userID int64) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&n).Error
	return n > 0, err
}

// CountMembers returns the number of members in a room.
func CountMembers(ctx context.Context, db *gorm.DB, roomID int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Where("room_id = ?", roomID).
		Count(&n).Error
	return n, err
}

// ListMemberIDs returns the user IDs of every member of a room. It is used
// for notification fan-out where the full membership rows are not needed.
func ListMemberIDs(ctx context.Context, db *gorm.DB, roomID int64) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Where("room_id = ?", roomID).
		Order("joined_at asc").
		Pluck("user_id", &ids).Error
	return ids, err
}
