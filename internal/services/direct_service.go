// Package services – DirectMessageService
//
// This file implements DirectMessageService, which owns 1:1 conversations:
// thread creation with canonical participant ordering, message exchange,
// read receipts, conversation listings enriched with identity and unread
// counts, and the contactable-users picker.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// conversation/user identifiers.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teamchat/go-team-chat/internal/directory"
	"github.com/teamchat/go-team-chat/internal/domain"
	"github.com/teamchat/go-team-chat/internal/repo"
	"github.com/teamchat/go-team-chat/internal/utils"
)

// DefaultContactableLimit caps the contactable-users picker.
const DefaultContactableLimit = 20

// ConversationInfo is a conversation seen from one participant's side.
type ConversationInfo struct {
	domain.Conversation
	OtherUserID       int64  `json:"other_user_id"`
	OtherUserName     string `json:"other_user_name,omitempty"`
	OtherUserAvatar   string `json:"other_user_avatar,omitempty"`
	OtherUserOnline   bool   `json:"other_user_online"`
	LastMessage       string `json:"last_message,omitempty"`
	LastMessageIsMine bool   `json:"last_message_is_mine"`
	UnreadCount       int64  `json:"unread_count"`
}

// ContactableUser is a directory entry annotated with presence.
type ContactableUser struct {
	domain.User
	IsOnline bool `json:"is_online"`
}

// DirectMessageService coordinates direct conversations and their messages.
type DirectMessageService struct {
	DB            *gorm.DB
	Users         directory.Directory
	Notifications *NotificationService
	Presence      *PresenceService

	// PreviewWords caps notification previews (word count).
	PreviewWords int
}

// GetOrCreateConversation returns the conversation between the two users,
// creating it when they have never spoken. The pair is canonicalized so
// argument order never matters. Talking to yourself is rejected.
func (s *DirectMessageService) GetOrCreateConversation(ctx context.Context, userID, otherID int64) (*domain.Conversation, error) {
	tr := otel.Tracer("services/DirectMessageService")
	ctx, span := tr.Start(ctx, "GetOrCreateConversation",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.Int64("other.id", otherID),
		),
	)
	defer span.End()

	if userID == 0 || otherID == 0 {
		return nil, ErrMissingParameter
	}
	if userID == otherID {
		return nil, ErrSelfConversation
	}
	if _, err := s.Users.ByID(ctx, otherID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	one, two := repo.CanonicalPair(userID, otherID)
	conv, err := repo.GetConversationByPair(ctx, s.DB, one, two)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	conv, err = repo.CreateConversation(ctx, s.DB, one, two)
	if err != nil {
		// Lost a race with the other participant: the unique pair index
		// rejected our insert, so the thread now exists.
		if existing, gerr := repo.GetConversationByPair(ctx, s.DB, one, two); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	return conv, nil
}

// SendMessage posts a message into the conversation on behalf of senderID.
// The insert and the activity bump run in one transaction; the other
// participant then receives a user_chat_message notification with a trimmed
// preview.
func (s *DirectMessageService) SendMessage(ctx context.Context, conversationID, senderID int64, message string) (*domain.DirectMessage, error) {
	tr := otel.Tracer("services/DirectMessageService")
	ctx, span := tr.Start(ctx, "SendMessage",
		trace.WithAttributes(
			attribute.Int64("conversation.id", conversationID),
			attribute.Int64("user.id", senderID),
		),
	)
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	conv, err := s.participantConversation(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	var msg *domain.DirectMessage
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateDirectMessage(ctx, tx, conversationID, senderID, message)
		if err != nil {
			return err
		}
		msg = m
		return repo.TouchConversation(ctx, tx, conversationID, m.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	if s.Presence != nil {
		s.Presence.Touch(ctx, senderID)
	}

	recipient := otherParticipant(conv, senderID)
	preview := utils.TrimWords(message, s.previewWords())
	sender := s.senderName(ctx, senderID)
	s.notifyRecipient(ctx, recipient, sender+": "+preview, map[string]any{
		"conversation_id": conversationID,
		"message_id":      msg.ID,
	})
	return msg, nil
}

// Messages returns up to limit messages of the conversation in
// chronological order, enriched with sender identity. Non-participants get
// ErrNotParticipant. sinceID > 0 turns the call into a delta poll.
func (s *DirectMessageService) Messages(ctx context.Context, conversationID, userID int64, limit int, sinceID int64) ([]domain.DirectMessage, error) {
	tr := otel.Tracer("services/DirectMessageService")
	ctx, span := tr.Start(ctx, "Messages",
		trace.WithAttributes(
			attribute.Int64("conversation.id", conversationID),
			attribute.Int64("user.id", userID),
		),
	)
	defer span.End()

	if _, err := s.participantConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	msgs, err := repo.ListDirectMessages(ctx, s.DB, conversationID, limit, sinceID)
	if err != nil {
		return nil, err
	}

	if s.Presence != nil {
		s.Presence.Touch(ctx, userID)
	}

	users := s.usersByID(ctx, directSenderIDs(msgs))
	for i := range msgs {
		if u, ok := users[msgs[i].SenderID]; ok {
			msgs[i].SenderName = u.DisplayName
			msgs[i].SenderAvatar = u.AvatarURL
		}
	}
	return msgs, nil
}

// MarkRead flips every unread message from the other participant and
// returns how many were flipped. Marking an already-read thread succeeds
// with zero.
func (s *DirectMessageService) MarkRead(ctx context.Context, conversationID, userID int64) (int64, error) {
	if _, err := s.participantConversation(ctx, conversationID, userID); err != nil {
		return 0, err
	}
	return repo.MarkConversationRead(ctx, s.DB, conversationID, userID)
}

// Conversation returns one conversation seen from userID's side.
func (s *DirectMessageService) Conversation(ctx context.Context, conversationID, userID int64) (*ConversationInfo, error) {
	conv, err := s.participantConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	info, err := s.enrich(ctx, *conv, userID)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// UserConversations returns every conversation of userID, most recently
// active first, enriched with the other participant, last message, and
// unread count. Listing also counts as activity.
func (s *DirectMessageService) UserConversations(ctx context.Context, userID int64) ([]ConversationInfo, error) {
	tr := otel.Tracer("services/DirectMessageService")
	ctx, span := tr.Start(ctx, "UserConversations",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	convs, err := repo.ListUserConversations(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if s.Presence != nil {
		s.Presence.Touch(ctx, userID)
	}
	out := make([]ConversationInfo, 0, len(convs))
	for _, c := range convs {
		info, err := s.enrich(ctx, c, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}
	return out, nil
}

// ContactableUsers returns up to DefaultContactableLimit users other than
// userID matching the search term, annotated with presence.
func (s *DirectMessageService) ContactableUsers(ctx context.Context, userID int64, search string) ([]ContactableUser, error) {
	users, err := s.Users.Search(ctx, userID, strings.TrimSpace(search), DefaultContactableLimit)
	if err != nil {
		return nil, err
	}
	out := make([]ContactableUser, 0, len(users))
	for _, u := range users {
		cu := ContactableUser{User: u}
		if s.Presence != nil {
			cu.IsOnline = s.Presence.IsOnline(ctx, u.ID)
		}
		out = append(out, cu)
	}
	return out, nil
}

// --- internals ---

func (s *DirectMessageService) previewWords() int {
	if s.PreviewWords > 0 {
		return s.PreviewWords
	}
	return 10
}

// participantConversation loads a conversation and verifies userID is one
// of its two participants.
func (s *DirectMessageService) participantConversation(ctx context.Context, conversationID, userID int64) (*domain.Conversation, error) {
	conv, err := repo.GetConversation(ctx, s.DB, conversationID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if conv.UserOne != userID && conv.UserTwo != userID {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

func (s *DirectMessageService) enrich(ctx context.Context, c domain.Conversation, userID int64) (*ConversationInfo, error) {
	info := ConversationInfo{
		Conversation: c,
		OtherUserID:  otherParticipant(&c, userID),
	}
	if u, err := s.Users.ByID(ctx, info.OtherUserID); err == nil {
		info.OtherUserName = u.DisplayName
		info.OtherUserAvatar = u.AvatarURL
	}
	if s.Presence != nil {
		info.OtherUserOnline = s.Presence.IsOnline(ctx, info.OtherUserID)
	}

	last, err := repo.LastDirectMessage(ctx, s.DB, c.ID)
	switch {
	case err == nil:
		info.LastMessage = last.Message
		info.LastMessageIsMine = last.SenderID == userID
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	info.UnreadCount, err = repo.CountUnreadInConversation(ctx, s.DB, c.ID, userID)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *DirectMessageService) notifyRecipient(ctx context.Context, userID int64, message string, data map[string]any) {
	if s.Notifications == nil {
		return
	}
	if _, err := s.Notifications.Send(ctx, userID, message, TypeUserMessage, data); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("direct message notification failed")
	}
}

func (s *DirectMessageService) senderName(ctx context.Context, userID int64) string {
	if s.Users == nil {
		return "Someone"
	}
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return "Someone"
	}
	return u.DisplayName
}

func (s *DirectMessageService) usersByID(ctx context.Context, ids []int64) map[int64]domain.User {
	out := map[int64]domain.User{}
	if s.Users == nil || len(ids) == 0 {
		return out
	}
	users, err := s.Users.ByIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("bulk user lookup failed")
		return out
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}

func otherParticipant(c *domain.Conversation, userID int64) int64 {
	if c.UserOne == userID {
		return c.UserTwo
	}
	return c.UserOne
}

func directSenderIDs(msgs []domain.DirectMessage) []int64 {
	seen := map[int64]struct{}{}
	var ids []int64
	for _, m := range msgs {
		if _, ok := seen[m.SenderID]; ok {
			continue
		}
		seen[m.SenderID] = struct{}{}
		ids = append(ids, m.SenderID)
	}
	return ids
}
