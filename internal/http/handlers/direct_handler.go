// Direct message HTTP handlers.
//
// This file exposes REST endpoints for one-to-one conversations:
//   - POST   /conversations               (get or create with another user)
//   - GET    /conversations               (list the caller's conversations, ETag support)
//   - GET    /conversations/{id}          (fetch one conversation)
//   - GET    /conversations/{id}/messages (list messages, since_id delta)
//   - POST   /conversations/{id}/messages (send message)
//   - POST   /conversations/{id}/read     (mark the peer's messages read)
//   - GET    /users                       (list contactable users)
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

// StartConversationRequest is the JSON payload for opening a conversation.
type StartConversationRequest struct {
	// UserID identifies the other participant.
	UserID int64 `json:"user_id" binding:"required,gt=0" example:"42"`
}

// SendDirectMessageRequest is the JSON payload for sending a direct message.
type SendDirectMessageRequest struct {
	Message string `json:"message" binding:"required" example:"Got a minute?"`
}

// ConversationsResponse wraps a list of conversations.
type ConversationsResponse struct {
	Conversations []services.ConversationInfo `json:"conversations"`
}

// DirectMessagesResponse wraps a page of direct messages in chronological order.
type DirectMessagesResponse struct {
	Messages []domain.DirectMessage `json:"messages"`
}

// MarkReadResponse reports how many messages a read receipt covered.
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

// ContactableUsersResponse wraps the users the caller can message.
type ContactableUsersResponse struct {
	Users []services.ContactableUser `json:"users"`
}

//
// Handlers
//

// StartConversation godoc
// @ID          startConversation
// @Summary     Open a conversation with another user
// @Description Returns the conversation between the caller and the given user, creating it when absent. The same pair always maps to the same conversation.
// @Tags        Conversations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       body       body    handlers.StartConversationRequest  true  "Other participant"
//
// @Success     200  {object} services.ConversationInfo
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations [post]
func (h *Handlers) StartConversation(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ctx := c.Request.Context()
	conv, err := h.dmSvc.GetOrCreateConversation(ctx, uid, req.UserID)
	if err != nil {
		failErr(c, err)
		return
	}
	info, err := h.dmSvc.Conversation(ctx, conv.ID, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, info)
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List the caller's conversations
// @Description Returns the caller's conversations, most recently active first, enriched with the peer's name, presence and unread count. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Conversations
// @Produce     json
//
// @Param       X-User-ID      header  int     true  "User ID (demo header)"       example(1)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {object} handlers.ConversationsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.dmSvc.(*services.DirectMessageService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ConversationsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"conversations:%d:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	convs, err := h.dmSvc.UserConversations(ctx, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ConversationsResponse{Conversations: convs})
}

// GetConversation godoc
// @ID          getConversation
// @Summary     Fetch one conversation
// @Description Returns one conversation enriched with peer metadata. Participants only.
// @Tags        Conversations
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Conversation ID"        example(3)
//
// @Success     200  {object} services.ConversationInfo
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a participant"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id} [get]
func (h *Handlers) GetConversation(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	convID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	info, err := h.dmSvc.Conversation(c.Request.Context(), convID, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, info)
}

// ListDirectMessages godoc
// @ID          listDirectMessages
// @Summary     List direct messages
// @Description Returns messages in chronological order. With since_id only newer messages are returned, which lets clients poll for deltas. Participants only.
// @Tags        Conversations
// @Produce     json
//
// @Param       X-User-ID  header  int  true   "User ID (demo header)"             example(1)
// @Param       id         path    int  true   "Conversation ID"                   example(3)
// @Param       limit      query   int  false  "Maximum messages to return"        minimum(1) maximum(200) default(50)
// @Param       since_id   query   int  false  "Return only messages newer than this ID"
//
// @Success     200  {object} handlers.DirectMessagesResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a participant"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id}/messages [get]
func (h *Handlers) ListDirectMessages(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	convID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	limit, sinceID := listParams(c, services.DefaultMessageLimit)

	msgs, err := h.dmSvc.Messages(c.Request.Context(), convID, uid, limit, sinceID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DirectMessagesResponse{Messages: msgs})
}

// SendDirectMessage godoc
// @ID          sendDirectMessage
// @Summary     Send a direct message
// @Description Sends a message in a conversation and notifies the recipient with a short preview. Participants only.
// @Tags        Conversations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Conversation ID"        example(3)
// @Param       body       body    handlers.SendDirectMessageRequest  true  "Message payload"
//
// @Success     201  {object} domain.DirectMessage
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a participant"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id}/messages [post]
func (h *Handlers) SendDirectMessage(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	convID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	var req SendDirectMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	msg, err := h.dmSvc.SendMessage(c.Request.Context(), convID, uid, req.Message)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, msg)
}

// MarkConversationRead godoc
// @ID          markConversationRead
// @Summary     Mark a conversation as read
// @Description Marks every unread message from the other participant as read and reports how many were affected.
// @Tags        Conversations
// @Produce     json
//
// @Param       X-User-ID  header  int  true  "User ID (demo header)"  example(1)
// @Param       id         path    int  true  "Conversation ID"        example(3)
//
// @Success     200  {object} handlers.MarkReadResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     403  {object} handlers.ErrorResponse "Not a participant"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id}/read [post]
func (h *Handlers) MarkConversationRead(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	convID, parsed := pathID(c, "id")
	if !parsed {
		return
	}
	marked, err := h.dmSvc.MarkRead(c.Request.Context(), convID, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, MarkReadResponse{Marked: marked})
}

// ListContactableUsers godoc
// @ID          listContactableUsers
// @Summary     List contactable users
// @Description Returns users the caller may start a conversation with, optionally filtered by a search term, each with a presence flag.
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID  header  int     true   "User ID (demo header)"           example(1)
// @Param       search     query   string  false  "Filter by login, name or email"  example(dana)
//
// @Success     200  {object} handlers.ContactableUsersResponse
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users [get]
func (h *Handlers) ListContactableUsers(c *gin.Context) {
	uid, authed := userID(c)
	if !authed {
		return
	}
	users, err := h.dmSvc.ContactableUsers(c.Request.Context(), uid, strings.TrimSpace(c.Query("search")))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ContactableUsersResponse{Users: users})
}
