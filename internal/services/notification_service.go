// Package services – NotificationService
//
// This file implements NotificationService, which owns the lifecycle of
// user notifications. Notifications are created as side effects of room and
// direct-message activity, listed newest first, marked read, counted, and
// deleted with strict ownership checks.
//
// Delivery semantics are at-most-once: a notification is one row plus an
// optional synchronous fan-out to in-process subscribers. Subscriber
// failures are logged and swallowed; there is no retry or queueing layer.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/repo"
)

// Notification types emitted by the chat services.
const (
	TypeRoomInvitation = "chat_room_invitation"
	TypeRoomMessage    = "chat_room_message"
	TypeUserMessage    = "user_chat_message"
)

// DefaultNotificationLimit caps ListForUser when the caller passes no limit.
const DefaultNotificationLimit = 20

// NotificationEvent is the payload handed to subscribers when a
// notification is created.
type NotificationEvent struct {
	ID      int64
	UserID  int64
	Message string
	Type    string
	Data    map[string]any
}

// NotificationService persists notifications and fans them out to
// in-process subscribers.
type NotificationService struct {
	DB *gorm.DB

	subscribers []func(NotificationEvent)
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Subscribe registers a callback invoked synchronously after every
// successful Send. Not safe to call concurrently with Send; wire
// subscribers at startup.
func (s *NotificationService) Subscribe(fn func(NotificationEvent)) {
	s.subscribers = append(s.subscribers, fn)
}

// Send persists a notification for userID and notifies subscribers.
// The data map is JSON-encoded into the row; a nil map stores an empty
// payload. It returns the new notification ID.
func (s *NotificationService) Send(ctx context.Context, userID int64, message, typ string, data map[string]any) (int64, error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.String("notification.type", typ),
		),
	)
	defer span.End()

	message = strings.TrimSpace(message)
	if userID == 0 || message == "" || typ == "" {
		return 0, ErrMissingParameter
	}

	encoded := ""
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return 0, err
		}
		encoded = string(raw)
	}

	n, err := repo.CreateNotification(ctx, s.DB, userID, message, typ, encoded)
	if err != nil {
		return 0, err
	}

	s.publish(NotificationEvent{
		ID:      n.ID,
		UserID:  userID,
		Message: message,
		Type:    typ,
		Data:    data,
	})
	return n.ID, nil
}

// ListForUser returns up to limit notifications of userID, newest first,
// with the stored JSON payload decoded into Payload. limit <= 0 falls back
// to DefaultNotificationLimit.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64, limit int, unreadOnly bool) ([]domain.Notification, error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "ListForUser",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	out, err := repo.ListNotifications(ctx, s.DB, userID, limit, unreadOnly)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Payload = decodePayload(out[i].Data)
	}
	return out, nil
}

// MarkRead flips one notification to read. It returns
// ErrNotificationNotFound unless the row exists and belongs to userID.
// Marking an already-read notification succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	err := repo.MarkNotificationRead(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// MarkAllRead flips every unread notification of userID and returns the
// number of rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return repo.MarkAllNotificationsRead(ctx, s.DB, userID)
}

// UnreadCount returns how many unread notifications userID has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return repo.CountUnreadNotifications(ctx, s.DB, userID)
}

// Delete removes one notification with the same ownership check as
// MarkRead.
func (s *NotificationService) Delete(ctx context.Context, id, userID int64) error {
	err := repo.DeleteNotification(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// publish invokes subscribers synchronously, recovering from panics so a
// misbehaving subscriber cannot fail the write it observes.
func (s *NotificationService) publish(ev NotificationEvent) {
	for _, fn := range s.subscribers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Str("type", ev.Type).
						Int64("user_id", ev.UserID).
						Msg("notification subscriber panicked")
				}
			}()
			fn(ev)
		}()
	}
}

func decodePayload(data string) map[string]any {
	if data == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}
