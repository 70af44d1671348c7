package services

import (
	"context"
	"errors"
	"testing"
)

func TestNotificationSend_Validation(t *testing.T) {
	svc := NewNotificationService(newTestDB(t))
	ctx := context.Background()

	cases := []struct {
		name    string
		userID  int64
		message string
		typ     string
	}{
		{"zero user", 0, "msg", TypeUserMessage},
		{"blank message", 1, "   ", TypeUserMessage},
		{"empty type", 1, "msg", ""},
	}
	for _, c := range cases {
		if _, err := svc.Send(ctx, c.userID, c.message, c.typ, nil); !errors.Is(err, ErrMissingParameter) {
			t.Fatalf("%s: expected ErrMissingParameter, got %v", c.name, err)
		}
	}
}

func TestNotificationSend_PersistsAndDecodes(t *testing.T) {
	svc := NewNotificationService(newTestDB(t))
	ctx := context.Background()

	id, err := svc.Send(ctx, 1, "You were invited", TypeRoomInvitation, map[string]any{"room_id": int64(7)})
	if err != nil || id == 0 {
		t.Fatalf("Send = %d, %v", id, err)
	}

	notifs, err := svc.ListForUser(ctx, 1, 0, false)
	if err != nil || len(notifs) != 1 {
		t.Fatalf("ListForUser = %d, %v", len(notifs), err)
	}
	n := notifs[0]
	if n.Type != TypeRoomInvitation || n.IsRead {
		t.Fatalf("unexpected notification: %+v", n)
	}
	// JSON numbers decode as float64.
	if got, ok := n.Payload["room_id"].(float64); !ok || got != 7 {
		t.Fatalf("payload = %+v", n.Payload)
	}
}

func TestNotificationSubscribers(t *testing.T) {
	svc := NewNotificationService(newTestDB(t))
	ctx := context.Background()

	var events []NotificationEvent
	svc.Subscribe(func(ev NotificationEvent) {
		events = append(events, ev)
	})
	// A panicking subscriber must not fail the send.
	svc.Subscribe(func(NotificationEvent) { panic("boom") })

	id, err := svc.Send(ctx, 1, "hello", TypeUserMessage, nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(events) != 1 || events[0].ID != id || events[0].UserID != 1 {
		t.Fatalf("events = %+v", events)
	}

	// The row was written despite the panicking subscriber.
	count, err := svc.UnreadCount(ctx, 1)
	if err != nil || count != 1 {
		t.Fatalf("UnreadCount = %d, %v", count, err)
	}
}

func TestNotificationMarkReadDeleteOwnership(t *testing.T) {
	svc := NewNotificationService(newTestDB(t))
	ctx := context.Background()

	id, err := svc.Send(ctx, 1, "hello", TypeUserMessage, nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if err := svc.MarkRead(ctx, id, 2); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound for wrong owner, got %v", err)
	}
	if err := svc.MarkRead(ctx, id, 1); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := svc.MarkRead(ctx, id, 1); err != nil {
		t.Fatalf("repeated MarkRead should succeed, got %v", err)
	}

	count, _ := svc.UnreadCount(ctx, 1)
	if count != 0 {
		t.Fatalf("UnreadCount after read = %d", count)
	}

	if err := svc.Delete(ctx, id, 2); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound for wrong owner, got %v", err)
	}
	if err := svc.Delete(ctx, id, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, id, 1); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound after delete, got %v", err)
	}
}

func TestNotificationMarkAllRead(t *testing.T) {
	svc := NewNotificationService(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Send(ctx, 1, "msg", TypeUserMessage, nil); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	flipped, err := svc.MarkAllRead(ctx, 1)
	if err != nil || flipped != 3 {
		t.Fatalf("MarkAllRead flipped=%d err=%v", flipped, err)
	}
	count, _ := svc.UnreadCount(ctx, 1)
	if count != 0 {
		t.Fatalf("UnreadCount = %d", count)
	}
}
