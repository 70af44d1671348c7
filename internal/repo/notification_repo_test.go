package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/teamchat/go-team-chat/internal/domain"
)

func TestCreateAndGetNotification(t *testing.T) {
	db := newRepoDB(t, &domain.Notification{})
	ctx := context.Background()

	n, err := CreateNotification(ctx, db, 1, "You were invited", "chat_room_invitation", `{"room_id":7}`)
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	if n.ID == 0 || n.IsRead {
		t.Fatalf("unexpected Notification fields: %+v", n)
	}

	got, err := GetNotification(ctx, db, n.ID, 1)
	if err != nil || got.Type != "chat_room_invitation" || got.Data != `{"room_id":7}` {
		t.Fatalf("GetNotification = %+v, %v", got, err)
	}

	// Ownership is enforced.
	if _, err := GetNotification(ctx, db, n.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestListNotifications_LimitAndUnreadOnly(t *testing.T) {
	db := newRepoDB(t, &domain.Notification{})
	ctx := context.Background()

	var first *domain.Notification
	for i := 0; i < 5; i++ {
		n, err := CreateNotification(ctx, db, 1, "msg", "user_chat_message", "")
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if first == nil {
			first = n
		}
	}
	if err := MarkNotificationRead(ctx, db, first.ID, 1); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}

	all, err := ListNotifications(ctx, db, 1, 3, false)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListNotifications limit: %d, %v", len(all), err)
	}

	unread, err := ListNotifications(ctx, db, 1, 20, true)
	if err != nil || len(unread) != 4 {
		t.Fatalf("ListNotifications unreadOnly: %d, %v", len(unread), err)
	}
	for _, n := range unread {
		if n.IsRead {
			t.Fatalf("unreadOnly returned a read row: %+v", n)
		}
	}
}

func TestMarkNotificationRead_Idempotent(t *testing.T) {
	db := newRepoDB(t, &domain.Notification{})
	ctx := context.Background()

	n, err := CreateNotification(ctx, db, 1, "msg", "chat_room_message", "")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := MarkNotificationRead(ctx, db, n.ID, 1); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := MarkNotificationRead(ctx, db, n.ID, 1); err != nil {
		t.Fatalf("second mark should succeed, got %v", err)
	}
	if err := MarkNotificationRead(ctx, db, 999, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}
	if err := MarkNotificationRead(ctx, db, n.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestMarkAllAndCountUnread(t *testing.T) {
	db := newRepoDB(t, &domain.Notification{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := CreateNotification(ctx, db, 1, "msg", "user_chat_message", ""); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if _, err := CreateNotification(ctx, db, 2, "other", "user_chat_message", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := CountUnreadNotifications(ctx, db, 1)
	if err != nil || n != 3 {
		t.Fatalf("CountUnreadNotifications = %d, %v", n, err)
	}

	flipped, err := MarkAllNotificationsRead(ctx, db, 1)
	if err != nil || flipped != 3 {
		t.Fatalf("MarkAllNotificationsRead flipped=%d err=%v", flipped, err)
	}

	n, err = CountUnreadNotifications(ctx, db, 1)
	if err != nil || n != 0 {
		t.Fatalf("post-mark CountUnreadNotifications = %d, %v", n, err)
	}

	// Other user untouched.
	n, err = CountUnreadNotifications(ctx, db, 2)
	if err != nil || n != 1 {
		t.Fatalf("user 2 CountUnreadNotifications = %d, %v", n, err)
	}
}

func TestDeleteNotification(t *testing.T) {
	db := newRepoDB(t, &domain.Notification{})
	ctx := context.Background()

	n, err := CreateNotification(ctx, db, 1, "msg", "user_chat_message", "")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := DeleteNotification(ctx, db, n.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
	if err := DeleteNotification(ctx, db, n.ID, 1); err != nil {
		t.Fatalf("DeleteNotification: %v", err)
	}
	if err := DeleteNotification(ctx, db, n.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
