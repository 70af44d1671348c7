// Package services – RoomService
//
// This file implements RoomService, the application-level component that
// owns group chat rooms: lifecycle, membership, moderation, messaging, and
// email invitations. It validates inputs, enforces the membership and
// moderator rules, runs every multi-statement write inside a GORM
// transaction, and fans out notifications through NotificationService.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// room/user identifiers.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teamchat/go-team-chat/internal/directory"
	"github.com/teamchat/go-team-chat/internal/domain"
	mailer "github.com/teamchat/go-team-chat/internal/mail"
	"github.com/teamchat/go-team-chat/internal/repo"
	"github.com/teamchat/go-team-chat/internal/utils"
)

// DefaultMessageLimit caps message listings when the caller passes no limit.
const DefaultMessageLimit = 50

// RoomInfo is a room enriched with caller-specific membership metadata.
type RoomInfo struct {
	domain.Room
	IsModerator bool   `json:"is_moderator"`
	MemberCount int64  `json:"member_count"`
	CreatorName string `json:"creator_name,omitempty"`
}

// RoomUser is a member enriched with directory identity and presence.
type RoomUser struct {
	UserID      int64  `json:"user_id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	IsModerator bool   `json:"is_moderator"`
	IsCreator   bool   `json:"is_creator"`
	IsOnline    bool   `json:"is_online"`
}

// RoomService coordinates rooms, membership, messages, and invitations.
type RoomService struct {
	DB            *gorm.DB
	Users         directory.Directory
	Notifications *NotificationService
	Mailer        mailer.Mailer
	Invites       *mailer.InviteSigner
	Presence      *PresenceService

	// SiteName and SiteURL feed the invitation email template.
	SiteName string
	SiteURL  string

	// PreviewWords caps notification previews (word count).
	PreviewWords int
}

// CreateRoom inserts a room and its creator membership (moderator) in one
// transaction. A blank name returns ErrEmptyName.
func (s *RoomService) CreateRoom(ctx context.Context, userID int64, name, description string, isPrivate bool) (*domain.Room, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "CreateRoom",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if userID == 0 {
		return nil, ErrMissingParameter
	}

	var room *domain.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.CreateRoom(ctx, tx, userID, name, strings.TrimSpace(description), isPrivate)
		if err != nil {
			return err
		}
		if _, err := repo.AddMember(ctx, tx, r.ID, userID, true); err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoom changes a room's name, description, and visibility. Only
// moderators may update; a blank name returns ErrEmptyName.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID, userID int64, name, description string, isPrivate bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := s.requireModerator(ctx, roomID, userID); err != nil {
		return err
	}
	err := repo.UpdateRoom(ctx, s.DB, roomID, name, strings.TrimSpace(description), isPrivate)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}

// DeleteRoom removes a room with its members and messages. Only moderators
// may delete.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, userID int64) error {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "DeleteRoom",
		trace.WithAttributes(
			attribute.Int64("room.id", roomID),
			attribute.Int64("user.id", userID),
		),
	)
	defer span.End()

	if err := s.requireModerator(ctx, roomID, userID); err != nil {
		return err
	}
	err := repo.DeleteRoom(ctx, s.DB, roomID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}

// AddUser puts targetID into the room. Adding an existing member is
// idempotent: only the moderator flag is reconciled, and no notification is
// sent. A fresh member receives a chat_room_invitation notification.
func (s *RoomService) AddUser(ctx context.Context, roomID, targetID int64, asModerator bool) error {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "AddUser",
		trace.WithAttributes(
			attribute.Int64("room.id", roomID),
			attribute.Int64("target.id", targetID),
		),
	)
	defer span.End()

	if targetID == 0 {
		return ErrMissingParameter
	}
	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	existing, err := repo.GetMember(ctx, s.DB, roomID, targetID)
	if err == nil {
		if existing.IsModerator != asModerator {
			return s.DB.WithContext(ctx).
				Model(&domain.RoomMember{}).
				Where("room_id = ? AND user_id = ?", roomID, targetID).
				Update("is_moderator", asModerator).Error
		}
		return nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	if _, err := repo.AddMember(ctx, s.DB, roomID, targetID, asModerator); err != nil {
		return err
	}
	s.notify(ctx, targetID,
		fmt.Sprintf("You have been added to the chat room \"%s\"", room.Name),
		TypeRoomInvitation,
		map[string]any{"room_id": roomID},
	)
	return nil
}

// RemoveUser takes targetID out of the room. Moderators may remove anyone
// but the creator (ErrCannotRemoveCreator); any member may remove
// themselves (leave). Removing a non-member is an idempotent no-op.
func (s *RoomService) RemoveUser(ctx context.Context, roomID, actorID, targetID int64) error {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "RemoveUser",
		trace.WithAttributes(
			attribute.Int64("room.id", roomID),
			attribute.Int64("target.id", targetID),
		),
	)
	defer span.End()

	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if targetID == room.CreatedBy {
		return ErrCannotRemoveCreator
	}
	if actorID != targetID {
		if err := s.requireModerator(ctx, roomID, actorID); err != nil {
			return err
		}
	}
	_, err = repo.RemoveMember(ctx, s.DB, roomID, targetID)
	return err
}

// SendMessage posts a message to the room on behalf of userID. The insert
// and the room activity bump run in one transaction; afterwards every other
// member receives a chat_room_message notification with a trimmed preview.
func (s *RoomService) SendMessage(ctx context.Context, roomID, userID int64, message string) (*domain.RoomMessage, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "SendMessage",
		trace.WithAttributes(
			attribute.Int64("room.id", roomID),
			attribute.Int64("user.id", userID),
		),
	)
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if err := s.requireMember(ctx, roomID, userID); err != nil {
		return nil, err
	}

	var msg *domain.RoomMessage
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateRoomMessage(ctx, tx, roomID, userID, message)
		if err != nil {
			return err
		}
		msg = m
		return repo.TouchRoom(ctx, tx, roomID, m.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	if s.Presence != nil {
		s.Presence.Touch(ctx, userID)
	}

	sender := s.displayName(ctx, userID)
	preview := utils.TrimWords(message, s.previewWords())
	memberIDs, err := repo.ListMemberIDs(ctx, s.DB, roomID)
	if err != nil {
		log.Warn().Err(err).Int64("room_id", roomID).Msg("room message notification fan-out skipped")
		return msg, nil
	}
	for _, id := range memberIDs {
		if id == userID {
			continue
		}
		s.notify(ctx, id,
			fmt.Sprintf("%s in \"%s\": %s", sender, room.Name, preview),
			TypeRoomMessage,
			map[string]any{"room_id": roomID, "message_id": msg.ID},
		)
	}
	return msg, nil
}

// Messages returns up to limit messages of the room in chronological order,
// enriched with sender identity. Non-members get ErrNotMember. sinceID > 0
// turns the call into a delta poll.
func (s *RoomService) Messages(ctx context.Context, roomID, userID int64, limit int, sinceID int64) ([]domain.RoomMessage, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "Messages",
		trace.WithAttributes(
			attribute.Int64("room.id", roomID),
			attribute.Int64("user.id", userID),
		),
	)
	defer span.End()

	if _, err := repo.GetRoom(ctx, s.DB, roomID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if err := s.requireMember(ctx, roomID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	msgs, err := repo.ListRoomMessages(ctx, s.DB, roomID, limit, sinceID)
	if err != nil {
		return nil, err
	}

	if s.Presence != nil {
		s.Presence.Touch(ctx, userID)
	}

	users := s.usersByID(ctx, senderIDs(msgs))
	for i := range msgs {
		if u, ok := users[msgs[i].UserID]; ok {
			msgs[i].UserName = u.DisplayName
			msgs[i].UserAvatar = u.AvatarURL
		}
	}
	return msgs, nil
}

// Room returns one room enriched with the caller's membership metadata.
func (s *RoomService) Room(ctx context.Context, roomID, userID int64) (*RoomInfo, error) {
	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.enrichRoom(ctx, *room, userID)
}

// UserRooms returns every room the user belongs to, most recently active
// first, each enriched with membership metadata.
func (s *RoomService) UserRooms(ctx context.Context, userID int64) ([]RoomInfo, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "UserRooms",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	rooms, err := repo.ListUserRooms(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		info, err := s.enrichRoom(ctx, r, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}
	return out, nil
}

// PublicRooms returns every non-private room, most recently active first.
func (s *RoomService) PublicRooms(ctx context.Context, userID int64) ([]RoomInfo, error) {
	rooms, err := repo.ListPublicRooms(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		info, err := s.enrichRoom(ctx, r, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}
	return out, nil
}

// RoomUsers returns the room's members enriched with identity and presence.
func (s *RoomService) RoomUsers(ctx context.Context, roomID int64) ([]RoomUser, error) {
	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	members, err := repo.ListMembers(ctx, s.DB, roomID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users := s.usersByID(ctx, ids)

	out := make([]RoomUser, 0, len(members))
	for _, m := range members {
		ru := RoomUser{
			UserID:      m.UserID,
			IsModerator: m.IsModerator || m.UserID == room.CreatedBy,
			IsCreator:   m.UserID == room.CreatedBy,
		}
		if u, ok := users[m.UserID]; ok {
			ru.Login = u.Login
			ru.DisplayName = u.DisplayName
			ru.Email = u.Email
			ru.AvatarURL = u.AvatarURL
		}
		if s.Presence != nil {
			ru.IsOnline = s.Presence.IsOnline(ctx, m.UserID)
		}
		out = append(out, ru)
	}
	return out, nil
}

// IsMember reports whether userID belongs to the room.
func (s *RoomService) IsMember(ctx context.Context, roomID, userID int64) (bool, error) {
	return repo.IsMember(ctx, s.DB, roomID, userID)
}

// IsModerator reports whether userID moderates the room. The creator is
// always a moderator regardless of the membership flag.
func (s *RoomService) IsModerator(ctx context.Context, roomID, userID int64) (bool, error) {
	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrRoomNotFound
		}
		return false, err
	}
	if room.CreatedBy == userID {
		return true, nil
	}
	m, err := repo.GetMember(ctx, s.DB, roomID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.IsModerator, nil
}

// SendInvitation invites an email address into the room on behalf of a
// member. A registered address is added immediately (ErrAlreadyMember when
// present); either way an email with a signed join link is attempted, and a
// transport failure surfaces as ErrEmailFailed.
func (s *RoomService) SendInvitation(ctx context.Context, roomID, inviterID int64, email string) error {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "SendInvitation",
		trace.WithAttributes(
			attribute.Int64("room.id", roomID),
			attribute.Int64("user.id", inviterID),
		),
	)
	defer span.End()

	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return ErrInvalidEmail
	}
	room, err := repo.GetRoom(ctx, s.DB, roomID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if err := s.requireMember(ctx, roomID, inviterID); err != nil {
		return err
	}

	// Registered users join immediately.
	if invited, err := s.Users.ByEmail(ctx, addr.Address); err == nil {
		member, err := repo.IsMember(ctx, s.DB, roomID, invited.ID)
		if err != nil {
			return err
		}
		if member {
			return ErrAlreadyMember
		}
		if err := s.AddUser(ctx, roomID, invited.ID, false); err != nil {
			return err
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	token, err := s.Invites.Sign(roomID, addr.Address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmailFailed, err)
	}
	inviter := s.displayName(ctx, inviterID)
	subject := fmt.Sprintf("%s invited you to \"%s\" on %s", inviter, room.Name, s.SiteName)
	body := fmt.Sprintf(
		"%s has invited you to join the chat room \"%s\" on %s.\n\nJoin here: %s/join?token=%s\n\nThe link expires automatically.",
		inviter, room.Name, s.SiteName, s.SiteURL, token,
	)
	if err := s.Mailer.Send(addr.Address, subject, body); err != nil {
		log.Error().Err(err).Str("to", addr.Address).Int64("room_id", roomID).Msg("invitation email failed")
		return ErrEmailFailed
	}
	return nil
}

// --- internals ---

func (s *RoomService) previewWords() int {
	if s.PreviewWords > 0 {
		return s.PreviewWords
	}
	return 10
}

func (s *RoomService) requireMember(ctx context.Context, roomID, userID int64) error {
	ok, err := repo.IsMember(ctx, s.DB, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}

func (s *RoomService) requireModerator(ctx context.Context, roomID, userID int64) error {
	ok, err := s.IsModerator(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotModerator
	}
	return nil
}

func (s *RoomService) enrichRoom(ctx context.Context, r domain.Room, userID int64) (*RoomInfo, error) {
	info := RoomInfo{Room: r}
	mod, err := s.IsModerator(ctx, r.ID, userID)
	if err != nil {
		return nil, err
	}
	info.IsModerator = mod
	info.MemberCount, err = repo.CountMembers(ctx, s.DB, r.ID)
	if err != nil {
		return nil, err
	}
	info.CreatorName = s.displayName(ctx, r.CreatedBy)
	return &info, nil
}

// notify records a notification; failures are logged, never propagated, so
// a notification hiccup cannot fail the write it accompanies.
func (s *RoomService) notify(ctx context.Context, userID int64, message, typ string, data map[string]any) {
	if s.Notifications == nil {
		return
	}
	if _, err := s.Notifications.Send(ctx, userID, message, typ, data); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Str("type", typ).Msg("notification send failed")
	}
}

func (s *RoomService) displayName(ctx context.Context, userID int64) string {
	if s.Users == nil {
		return fmt.Sprintf("User %d", userID)
	}
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return fmt.Sprintf("User %d", userID)
	}
	return u.DisplayName
}

func (s *RoomService) usersByID(ctx context.Context, ids []int64) map[int64]domain.User {
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

func senderIDs(msgs []domain.RoomMessage) []int64 {
	seen := map[int64]struct{}{}
	var ids []int64
	for _, m := range msgs {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		ids = append(ids, m.UserID)
	}
	return ids
}
