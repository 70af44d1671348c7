// Package services defines the business logic for rooms, direct messages,
// notifications, and assistant conversations. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Validation errors.
var (
	// ErrEmptyName is returned when a room is created or renamed with a
	// blank name.
	ErrEmptyName = errors.New("name is empty")

	// ErrEmptyMessage is returned when a message body is blank after
	// trimming whitespace.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMissingParameter is returned when a required identifier or field
	// is zero/empty.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidEmail is returned when an invitation address fails
	// RFC 5322 parsing.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrSelfConversation is returned when a user tries to open a direct
	// conversation with themselves.
	ErrSelfConversation = errors.New("cannot start a conversation with yourself")
)

// Not-found errors.
var (
	// ErrRoomNotFound indicates that the requested room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrConversationNotFound indicates that the requested direct
	// conversation does not exist or does not involve the current user.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrNotificationNotFound indicates that the requested notification
	// does not exist or is not owned by the current user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrUserNotFound indicates that a referenced user is missing from the
	// directory.
	ErrUserNotFound = errors.New("user not found")
)

// Authorization errors.
var (
	// ErrNotMember is returned when a user acts on a room they do not
	// belong to, or lacks the moderator rights the action requires.
	ErrNotMember = errors.New("not a member of this room")

	// ErrNotModerator is returned when a member without moderator rights
	// attempts a moderator-only action.
	ErrNotModerator = errors.New("not a moderator of this room")

	// ErrNotParticipant is returned when a user acts on a direct
	// conversation they are not part of.
	ErrNotParticipant = errors.New("not a participant of this conversation")

	// ErrCannotRemoveCreator is returned when someone attempts to remove
	// the room creator from their own room.
	ErrCannotRemoveCreator = errors.New("cannot remove the room creator")
)

// Conflict and transport errors.
var (
	// ErrAlreadyMember is returned when an invited user already belongs to
	// the room.
	ErrAlreadyMember = errors.New("user is already a member")

	// ErrEmailFailed is returned when the invitation email could not be
	// delivered.
	ErrEmailFailed = errors.New("failed to send invitation email")
)
