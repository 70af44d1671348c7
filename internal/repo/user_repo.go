// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the local
// user directory.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
)

// CreateUser inserts a directory row. Login and email carry unique indexes;
// duplicates surface as raw constraint errors.
func CreateUser(ctx context.Context, db *gorm.DB, login, displayName, email, avatarURL string) (*domain.User, error) {
	u := &domain.User{
		Login:       login,
		DisplayName: displayName,
		Email:       email,
		AvatarURL:   avatarURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by ID, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email, or ErrNotFound if no account
// carries that address.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).First(&u, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns users by ID. Missing IDs are silently skipped; the
// caller maps the result by ID when order matters.
func ListUsers(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.User
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

// ListUsersExcept returns up to limit users other than userID, ordered by
// display name. It backs the contactable-users picker.
func ListUsersExcept(ctx context.Context, db *gorm.DB, userID int64, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Where("id <> ?", userID).
		Order("display_name asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
