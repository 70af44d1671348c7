// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// last-activity table behind the online heuristic.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamchat/go-team-chat/internal/domain"
)

// TouchActivity upserts the last-active timestamp for userID.
func TouchActivity(ctx context.Context, db *gorm.DB, userID int64, at time.Time) error {
	row := &domain.UserActivity{UserID: userID, LastActive: at.UTC()}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_active"}),
		}).
		Create(row).Error
}

// LastActive returns the last-active timestamp of userID, or ErrNotFound
// when the user has never touched a chat surface.
func LastActive(ctx context.Context, db *gorm.DB, userID int64) (time.Time, error) {
	var a domain.UserActivity
	err := db.WithContext(ctx).First(&a, "user_id = ?", userID).Error
	if err != nil {
		return time.Time{}, err
	}
	return a.LastActive, nil
}
