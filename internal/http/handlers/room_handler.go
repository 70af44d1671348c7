// Chat room HTTP handlers.
//
// This file exposes REST endpoints for group chat rooms:
//   - POST   /rooms                      (create)
//   - GET    /rooms                      (list the caller's rooms, ETag support)
//   - GET    /rooms/public               (list public rooms)
//   - GET    /rooms/{id}                 (fetch one room)
//   - PUT    /rooms/{id}                 (update, moderators only)
//   - DELETE /rooms/{id}                 (delete, moderators only)
//   - GET    /rooms/{id}/users           (list members)
//   - POST   /rooms/{id}/users           (add member)
//   - DELETE /rooms/{id}/users/{userID}  (remove member)
//   - GET    /rooms/{id}/messages        (list messages, since_id delta)
//   - POST   /rooms/{id}/messages        (post message)
//   - POST   /rooms/{id}/invitations     (email a join invitation)
//   - POST   /rooms/join                 (redeem a join token)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/repo"
	"github.com/teamchat/go-team-chat/internal/services"
)

//
// DTOs
//

// CreateRoomRequest is the JSON payload for creating a chat room.
type CreateRoomRequest struct {
	// Name is the room name (1-255 chars).
	Name string `json:"name" binding:"required,min=1,max=255" example:"Engineering"`
	// Description optionally describes the room's purpose.
	Description string `json:"description" example:"Build and ship discussions"`
	// IsPrivate hides the room from the public room directory.
	IsPrivate bool `json:"is_private"`
}

// UpdateRoomRequest is the JSON payload for updating a chat room.
type UpdateRoomRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255" example:"Engineering"`
	Description string `json:"description" example:"Build and ship discussions"`
	IsPrivate   bool   `json:"is_private"`
}

// AddRoomUserRequest is the JSON payload for adding a member to a room.
type AddRoomUserRequest struct {
	// UserID identifies the user to add.
	UserID int64 `json:"user_id" binding:"required,gt=0" example:"42"`
	// IsModerator grants the new member moderator rights.
	IsModerator bool `json:"is_moderator"`
}

// SendRoomMessageRequest is the JSON payload for posting a room message.
type SendRoomMessageRequest struct {
	Message string `json:"message" binding:"required" example:"Standup in five minutes"`
}

// InviteRequest is the JSON payload for emailing a room invitation.
type InviteRequest struct {
	// Email is the invitee's address; registered users are added directly.
	Email string `json:"email" binding:"required" example:"dana@example.com"`
}

// JoinRoomRequest is the JSON payload for redeeming an invitation token.
type JoinRoomRequest struct {
	Token string `json:"token" binding:"required"`
}

// RoomsResponse wraps a list of rooms.
type RoomsResponse struct {
	Rooms []services.RoomInfo `json:"rooms"`
}

// RoomUsersResponse wraps a room's member list.
type RoomUsersResponse struct {
	Users []services.RoomUser `json:"users"`
}

// RoomMessagesResponse wraps a page of room messages in chronological order.
type RoomMessagesResponse struct {
	Messages []domain.RoomMessage `json:"messages"`
}

//
// Helpers
//

// ensureMember verifies the room exists (404) and that uid belongs to it
// (403), writing the error response itself on failure.
func (h *Handlers) ensureMember(c *gin.Context, roomID, uid int64) bool {
	ctx := c.Request.Context()
	if _, err := h.roomSvc.Room(ctx, roomID, uid); err != nil {
		failErr(c, err)
		return false
	}
	member, err := h.roomSvc.IsMember(ctx, roomID, uid)
	if err != nil {
		failErr(c, err)
		return false
	}
	if !member {
		failErr(c, services.ErrNotMember)
		return false
	}
	return true
}

//
// Handlers
//

// CreateRoom godoc
// @ID          createRoom
// @Summary     Create a chat room
// @Description Creates a chat room; the creator automatically joins as moderator.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       body       body    handlers.CreateRoomRequest  true  "Create room payload"
//
// @Success     201  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /rooms [post]
func (h *Handlers) CreateRoom(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	room, err := h.roomSvc.CreateRoom(c.Request.Context(), uid, strings.TrimSpace(req.Name), req.Description, req.IsPrivate)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, room)
}

// ListRooms godoc
// @ID          listRooms
// @Summary     List the caller's rooms
// @Description Returns the rooms the caller belongs to, most recently active first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-User-ID      header  int     true  "User ID (demo header)"       example(1)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {object} handlers.RoomsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms [get]
func (h *Handlers) ListRooms(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.roomSvc.(*services.RoomService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.RoomsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"rooms:%d:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	rooms, err := h.roomSvc.UserRooms(ctx, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, RoomsResponse{Rooms: rooms})
}

// ListPublicRooms godoc
// @ID          listPublicRooms
// @Summary     List public rooms
// @Description Returns rooms open to everyone, most recently active first.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
//
// @Success     200  {object} handlers.RoomsResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/public [get]
func (h *Handlers) ListPublicRooms(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	rooms, err := h.roomSvc.PublicRooms(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, RoomsResponse{Rooms: rooms})
}

// GetRoom godoc
// @ID          getRoom
// @Summary     Fetch one room
// @Description Returns one room enriched with membership metadata for the caller.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Room ID"                example(7)
//
// @Success     200  {object} services.RoomInfo
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id} [get]
func (h *Handlers) GetRoom(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	info, err := h.roomSvc.Room(c.Request.Context(), roomID, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, info)
}

// UpdateRoom godoc
// @ID          updateRoom
// @Summary     Update a room
// @Description Updates a room's name, description and visibility. Moderators only.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Room ID"                example(7)
// @Param       body       body    handlers.UpdateRoomRequest  true  "Update room payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a moderator"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id} [put]
func (h *Handlers) UpdateRoom(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.roomSvc.UpdateRoom(c.Request.Context(), roomID, uid, strings.TrimSpace(req.Name), req.Description, req.IsPrivate); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// DeleteRoom godoc
// @ID          deleteRoom
// @Summary     Delete a room
// @Description Deletes a room together with its members and messages. Moderators only.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Room ID"                example(7)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a moderator"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id} [delete]
func (h *Handlers) DeleteRoom(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	if err := h.roomSvc.DeleteRoom(c.Request.Context(), roomID, uid); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ListRoomUsers godoc
// @ID          listRoomUsers
// @Summary     List room members
// @Description Returns the members of a room with role and presence flags. Members only.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Room ID"                example(7)
//
// @Success     200  {object} handlers.RoomUsersResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a member"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/users [get]
func (h *Handlers) ListRoomUsers(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	if !h.ensureMember(c, roomID, uid) {
		return
	}
	users, err := h.roomSvc.RoomUsers(c.Request.Context(), roomID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, RoomUsersResponse{Users: users})
}

// AddRoomUser godoc
// @ID          addRoomUser
// @Summary     Add a member to a room
// @Description Adds a user to a room. Any member may add users; adding an existing member is a no-op.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Room ID"                example(7)
// @Param       body       body    handlers.AddRoomUserRequest  true  "Add member payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a member"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/users [post]
func (h *Handlers) AddRoomUser(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	var req AddRoomUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if !h.ensureMember(c, roomID, uid) {
		return
	}
	if err := h.roomSvc.AddUser(c.Request.Context(), roomID, req.UserID, req.IsModerator); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// RemoveRoomUser godoc
// @ID          removeRoomUser
// @Summary     Remove a member from a room
// @Description Removes a user from a room. Members may leave; removing others requires moderator rights. The creator can never be removed.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Room ID"                example(7)
// @Param       userID     path    int  true  "User ID to remove"      example(42)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Forbidden"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/users/{userID} [delete]
func (h *Handlers) RemoveRoomUser(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	targetID, parsed := pathID(c, "userID")
	if !parsed {
		return
	}
	if err := h.roomSvc.RemoveUser(c.Request.Context(), roomID, uid, targetID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ListRoomMessages godoc
// @ID          listRoomMessages
// @Summary     List room messages
// @Description Returns messages in chronological order. With since_id only newer messages are returned, which lets clients poll for deltas. Members only.
// @Tags        Rooms
// @Produce     json
//
// @Param       X-User-ID  header  int  true   "User ID (demo header)"             example(1)
// @Param       id         path    int  true   "Room ID"                           example(7)
// @Param       limit      query   int  false  "Maximum messages to return"        minimum(1) maximum(200) default(50)
// @Param       since_id   query   int  false  "Return only messages newer than this ID"
//
// @Success     200  {object} handlers.RoomMessagesResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a member"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/messages [get]
func (h *Handlers) ListRoomMessages(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	limit, sinceID := listParams(c, services.DefaultMessageLimit)

	msgs, err := h.roomSvc.Messages(c.Request.Context(), roomID, uid, limit, sinceID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, RoomMessagesResponse{Messages: msgs})
}

// SendRoomMessage godoc
// @ID          sendRoomMessage
// @Summary     Post a message to a room
// @Description Posts a message and notifies the other members with a short preview. Members only.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Room ID"                example(7)
// @Param       body       body    handlers.SendRoomMessageRequest  true  "Message payload"
//
// @Success     201  {object} domain.RoomMessage
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a member"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/messages [post]
func (h *Handlers) SendRoomMessage(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	var req SendRoomMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	msg, err := h.roomSvc.SendMessage(c.Request.Context(), roomID, uid, req.Message)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, msg)
}

// InviteToRoom godoc
// @ID          inviteToRoom
// @Summary     Invite a user by email
// @Description Emails a join link for the room. Registered users are added directly and notified in-app. Members only.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Room ID"                example(7)
// @Param       body       body    handlers.InviteRequest  true  "Invitation payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a member"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     409  {object} handlers.ErrorResponse "Already a member"
// @Failure     502  {object} handlers.ErrorResponse "Email delivery failed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/{id}/invitations [post]
func (h *Handlers) InviteToRoom(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	roomID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.roomSvc.SendInvitation(c.Request.Context(), roomID, uid, strings.TrimSpace(req.Email)); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// JoinRoom godoc
// @ID          joinRoom
// @Summary     Join a room with an invitation token
// @Description Redeems a signed invitation token and adds the caller to the room it names.
// @Tags        Rooms
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       body       body    handlers.JoinRoomRequest  true  "Join payload"
//
// @Success     200  {object} services.RoomInfo
// @Failure     400  {object} handlers.ErrorResponse "Invalid or expired token"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Room not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /rooms/join [post]
func (h *Handlers) JoinRoom(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	claims, err := h.invites.Verify(req.Token)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid or expired invitation token")
		return
	}
	ctx := c.Request.Context()
	if err := h.roomSvc.AddUser(ctx, claims.RoomID, uid, false); err != nil {
		failErr(c, err)
		return
	}
	info, err := h.roomSvc.Room(ctx, claims.RoomID, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, info)
}
