// Package services – PresenceService
//
// Presence is a heuristic, not a connection state: a user counts as online
// when their last recorded activity falls inside the configured window.
// Chat surfaces call Touch as a side effect of sending and reading.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/repo"
)

// DefaultPresenceWindow is used when no window is configured.
const DefaultPresenceWindow = 5 * time.Minute

// PresenceService tracks per-user last-activity timestamps.
type PresenceService struct {
	DB     *gorm.DB
	Window time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewPresenceService constructs a PresenceService with the given window.
func NewPresenceService(db *gorm.DB, window time.Duration) *PresenceService {
	if window <= 0 {
		window = DefaultPresenceWindow
	}
	return &PresenceService{DB: db, Window: window, now: time.Now}
}

// Touch records activity for userID. Failures are logged and swallowed;
// presence bookkeeping must never fail the operation that triggered it.
func (s *PresenceService) Touch(ctx context.Context, userID int64) {
	if userID == 0 {
		return
	}
	if err := repo.TouchActivity(ctx, s.DB, userID, s.now().UTC()); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("activity touch failed")
	}
}

// IsOnline reports whether userID was active inside the window. Users with
// no recorded activity are offline.
func (s *PresenceService) IsOnline(ctx context.Context, userID int64) bool {
	last, err := repo.LastActive(ctx, s.DB, userID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Warn().Err(err).Int64("user_id", userID).Msg("presence lookup failed")
		}
		return false
	}
	return s.now().UTC().Sub(last) < s.Window
}
