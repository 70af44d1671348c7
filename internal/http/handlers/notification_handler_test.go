package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/services"
)

func newNotifRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t)
	h, _ := newTestHandlers(t, db)

	r := gin.New()
	r.GET("/notifications", h.ListNotifications)
	r.GET("/notifications/unread-count", h.UnreadNotificationCount)
	r.POST("/notifications/:id/read", h.MarkNotificationRead)
	r.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	r.DELETE("/notifications/:id", h.DeleteNotification)
	return r, db
}

func seedNotification(t *testing.T, db *gorm.DB, userID int64, msg, typ string) int64 {
	t.Helper()
	id, err := services.NewNotificationService(db).Send(context.Background(), userID, msg, typ, map[string]any{"room_id": int64(1)})
	if err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return id
}

func TestListNotifications_AndUnreadFilter(t *testing.T) {
	r, db := newNotifRouter(t)
	alice := seedHandlerUser(t, db, "alice")
	bob := seedHandlerUser(t, db, "bob")

	first := seedNotification(t, db, alice.ID, "added to room", services.TypeRoomInvitation)
	seedNotification(t, db, alice.ID, "new message", services.TypeRoomMessage)
	seedNotification(t, db, bob.ID, "not yours", services.TypeRoomMessage)

	if w := doJSON(r, http.MethodGet, "/notifications", 0, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header -> %d", w.Code)
	}

	w := doJSON(r, http.MethodGet, "/notifications", alice.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	var resp NotificationsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Notifications) != 2 {
		t.Fatalf("notifications = %d", len(resp.Notifications))
	}
	for _, n := range resp.Notifications {
		if n.UserID != alice.ID {
			t.Fatalf("leaked notification: %#v", n)
		}
	}
	// Payload decoded from the stored JSON
	var got *domain.Notification
	for i := range resp.Notifications {
		if resp.Notifications[i].ID == first {
			got = &resp.Notifications[i]
		}
	}
	if got == nil || got.Payload["room_id"] == nil {
		t.Fatalf("payload not decoded: %#v", got)
	}

	// Mark one read, then filter to unread only
	if w := doJSON(r, http.MethodPost, fmt.Sprintf("/notifications/%d/read", first), alice.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("mark read -> %d", w.Code)
	}
	w = doJSON(r, http.MethodGet, "/notifications?unread=true", alice.ID, "")
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Notifications) != 1 || resp.Notifications[0].ID == first {
		t.Fatalf("unread filter: %#v", resp.Notifications)
	}
}

func TestUnreadCountAndMarkAll(t *testing.T) {
	r, db := newNotifRouter(t)
	alice := seedHandlerUser(t, db, "alice")

	seedNotification(t, db, alice.ID, "one", services.TypeRoomMessage)
	seedNotification(t, db, alice.ID, "two", services.TypeRoomMessage)

	w := doJSON(r, http.MethodGet, "/notifications/unread-count", alice.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("unread count -> %d", w.Code)
	}
	var count UnreadCountResponse
	_ = json.Unmarshal(w.Body.Bytes(), &count)
	if count.Unread != 2 {
		t.Fatalf("unread = %d", count.Unread)
	}

	w = doJSON(r, http.MethodPost, "/notifications/read-all", alice.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("read-all -> %d", w.Code)
	}
	var marked MarkAllReadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &marked)
	if marked.Marked != 2 {
		t.Fatalf("marked = %d", marked.Marked)
	}

	w = doJSON(r, http.MethodGet, "/notifications/unread-count", alice.ID, "")
	_ = json.Unmarshal(w.Body.Bytes(), &count)
	if count.Unread != 0 {
		t.Fatalf("unread after read-all = %d", count.Unread)
	}
}

func TestMarkAndDeleteNotification_Ownership(t *testing.T) {
	r, db := newNotifRouter(t)
	alice := seedHandlerUser(t, db, "alice")
	bob := seedHandlerUser(t, db, "bob")

	id := seedNotification(t, db, alice.ID, "mine", services.TypeUserMessage)
	path := fmt.Sprintf("/notifications/%d", id)

	// Another user's row reads as missing
	if w := doJSON(r, http.MethodPost, path+"/read", bob.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("foreign mark read -> %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, path, bob.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete -> %d", w.Code)
	}

	if w := doJSON(r, http.MethodDelete, path, alice.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete -> %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, path, alice.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("re-delete -> %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/notifications/abc", alice.ID, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id -> %d", w.Code)
	}
}
