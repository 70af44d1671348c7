// Handler wiring for the team chat API.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. All business rules (membership,
// moderation, notification fan-out) live in the services package; the mapping
// from service sentinels to HTTP statuses lives in errors.go.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/mail"
	"github.com/teamchat/go-team-chat/internal/services"
	"github.com/teamchat/go-team-chat/internal/utils"
)

//
// Service contracts (context-aware)
//

// RoomService defines group chat room operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RoomService interface {
	// CreateRoom creates a room owned by userID, who joins as moderator.
	CreateRoom(ctx context.Context, userID int64, name, description string, isPrivate bool) (*domain.Room, error)
	// UpdateRoom renames or re-describes a room; moderators only.
	UpdateRoom(ctx context.Context, roomID, userID int64, name, description string, isPrivate bool) error
	// DeleteRoom removes a room with its members and messages; moderators only.
	DeleteRoom(ctx context.Context, roomID, userID int64) error
	// AddUser adds targetID to the room; a no-op when already a member.
	AddUser(ctx context.Context, roomID, targetID int64, asModerator bool) error
	// RemoveUser removes targetID, enforcing the creator and moderator rules.
	RemoveUser(ctx context.Context, roomID, actorID, targetID int64) error
	// SendMessage posts a message and notifies the other members.
	SendMessage(ctx context.Context, roomID, userID int64, message string) (*domain.RoomMessage, error)
	// Messages returns messages newer than sinceID, members only.
	Messages(ctx context.Context, roomID, userID int64, limit int, sinceID int64) ([]domain.RoomMessage, error)
	// Room returns one room enriched with membership metadata.
	Room(ctx context.Context, roomID, userID int64) (*services.RoomInfo, error)
	// UserRooms lists the rooms userID belongs to, most recently active first.
	UserRooms(ctx context.Context, userID int64) ([]services.RoomInfo, error)
	// PublicRooms lists rooms open to everyone.
	PublicRooms(ctx context.Context, userID int64) ([]services.RoomInfo, error)
	// RoomUsers lists the members of a room with role and presence flags.
	RoomUsers(ctx context.Context, roomID int64) ([]services.RoomUser, error)
	// IsMember reports whether userID belongs to the room.
	IsMember(ctx context.Context, roomID, userID int64) (bool, error)
	// SendInvitation emails a join link, adding registered users directly.
	SendInvitation(ctx context.Context, roomID, inviterID int64, email string) error
}

// DirectService defines one-to-one conversation operations.
type DirectService interface {
	// GetOrCreateConversation returns the conversation between the pair,
	// creating it when absent.
	GetOrCreateConversation(ctx context.Context, userID, otherID int64) (*domain.Conversation, error)
	// SendMessage posts a direct message and notifies the recipient.
	SendMessage(ctx context.Context, conversationID, senderID int64, message string) (*domain.DirectMessage, error)
	// Messages returns messages newer than sinceID, participants only.
	Messages(ctx context.Context, conversationID, userID int64, limit int, sinceID int64) ([]domain.DirectMessage, error)
	// MarkRead marks the other participant's messages as read.
	MarkRead(ctx context.Context, conversationID, userID int64) (int64, error)
	// Conversation returns one conversation enriched with peer metadata.
	Conversation(ctx context.Context, conversationID, userID int64) (*services.ConversationInfo, error)
	// UserConversations lists the caller's conversations, newest first.
	UserConversations(ctx context.Context, userID int64) ([]services.ConversationInfo, error)
	// ContactableUsers lists users the caller may start a conversation with.
	ContactableUsers(ctx context.Context, userID int64, search string) ([]services.ContactableUser, error)
}

// NotificationService defines per-user notification operations.
type NotificationService interface {
	// ListForUser returns the newest notifications, optionally unread only.
	ListForUser(ctx context.Context, userID int64, limit int, unreadOnly bool) ([]domain.Notification, error)
	// MarkRead marks one notification owned by userID as read.
	MarkRead(ctx context.Context, id, userID int64) error
	// MarkAllRead marks every unread notification as read.
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	// UnreadCount returns the number of unread notifications.
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	// Delete removes one notification owned by userID.
	Delete(ctx context.Context, id, userID int64) error
}

// AIService defines assistant conversation operations.
type AIService interface {
	// Ask sends a prompt to the assistant and persists both sides.
	Ask(ctx context.Context, userID, conversationID, topicID int64, prompt string) (*services.AIExchange, error)
	// Conversation returns one assistant conversation with its messages.
	Conversation(ctx context.Context, id, userID int64) (*domain.AIConversation, []domain.AIMessage, error)
	// UserConversations lists the caller's assistant conversations.
	UserConversations(ctx context.Context, userID int64) ([]domain.AIConversation, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for rooms, direct messages, notifications,
// and the AI assistant. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	roomSvc  RoomService
	dmSvc    DirectService
	notifSvc NotificationService
	aiSvc    AIService
	invites  *mail.InviteSigner
}

// New constructs and returns a Handlers instance bound to the given services.
func New(roomSvc RoomService, dmSvc DirectService, notifSvc NotificationService, aiSvc AIService, invites *mail.InviteSigner) *Handlers {
	return &Handlers{roomSvc: roomSvc, dmSvc: dmSvc, notifSvc: notifSvc, aiSvc: aiSvc, invites: invites}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-User-ID" header (tests use
// it). When neither yields a positive id it writes a 401 and returns ok=false;
// callers must return immediately in that case.
func userID(c *gin.Context) (int64, bool) {
	if v, exists := c.Get("userID"); exists {
		if id, isInt := v.(int64); isInt && id > 0 {
			return id, true
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			if id := utils.ParseInt64(h, 0); id > 0 {
				return id, true
			}
		}
	}
	fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid X-User-ID header")
	return 0, false
}

//
// Helpers
//

// pathID parses a positive int64 path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id := utils.ParseInt64(c.Param(name), 0)
	if id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// listParams parses the limit and since_id query parameters, bounding limit
// to sane defaults and a hard maximum.
func listParams(c *gin.Context, defaultLimit int) (limit int, sinceID int64) {
	const maxLimit = 200

	limit = utils.AtoiDefault(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	sinceID = utils.ParseInt64(c.Query("since_id"), 0)
	if sinceID < 0 {
		sinceID = 0
	}
	return
}
