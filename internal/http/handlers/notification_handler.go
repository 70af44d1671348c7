// Notification HTTP handlers.
//
// This file exposes REST endpoints for per-user notifications:
//   - GET    /notifications               (list, newest first)
//   - GET    /notifications/unread-count  (badge counter)
//   - POST   /notifications/{id}/read     (mark one read)
//   - POST   /notifications/read-all      (mark everything read)
//   - DELETE /notifications/{id}          (delete one)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/services"
)

//
// DTOs
//

// NotificationsResponse wraps a list of notifications.
type NotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

// UnreadCountResponse carries the unread notification counter.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// MarkAllReadResponse reports how many notifications were marked read.
type MarkAllReadResponse struct {
	Marked int64 `json:"marked"`
}

//
// Handlers
//

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List notifications
// @Description Returns the caller's newest notifications. With unread=true only unread ones are returned.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  int   true   "User ID (demo header)"            example(1)
// @Param       limit      query   int   false  "Maximum notifications to return"  minimum(1) maximum(200) default(20)
// @Param       unread     query   bool  false  "Return only unread notifications"
//
// @Success     200  {object} handlers.NotificationsResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	limit, _ := listParams(c, services.DefaultNotificationLimit)
	unreadOnly := c.Query("unread") == "true" || c.Query("unread") == "1"

	items, err := h.notifSvc.ListForUser(c.Request.Context(), uid, limit, unreadOnly)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, NotificationsResponse{Notifications: items})
}

// UnreadNotificationCount godoc
// @ID          unreadNotificationCount
// @Summary     Count unread notifications
// @Description Returns the number of unread notifications, suitable for a badge counter.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
//
// @Success     200  {object} handlers.UnreadCountResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications/unread-count [get]
func (h *Handlers) UnreadNotificationCount(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	n, err := h.notifSvc.UnreadCount(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, UnreadCountResponse{Unread: n})
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark a notification as read
// @Description Marks one notification owned by the caller as read. Re-marking a read notification succeeds.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Notification ID"        example(12)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Notification not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications/{id}/read [post]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	id, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	if err := h.notifSvc.MarkRead(c.Request.Context(), id, uid); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// MarkAllNotificationsRead godoc
// @ID          markAllNotificationsRead
// @Summary     Mark all notifications as read
// @Description Marks every unread notification of the caller as read and reports how many were affected.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
//
// @Success     200  {object} handlers.MarkAllReadResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications/read-all [post]
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	marked, err := h.notifSvc.MarkAllRead(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, MarkAllReadResponse{Marked: marked})
}

// DeleteNotification godoc
// @ID          deleteNotification
// @Summary     Delete a notification
// @Description Deletes one notification owned by the caller.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Notification ID"        example(12)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Notification not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications/{id} [delete]
func (h *Handlers) DeleteNotification(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	id, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	if err := h.notifSvc.Delete(c.Request.Context(), id, uid); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
