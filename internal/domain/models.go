// Package domain defines the persistence models for chat rooms, direct
// conversations, and notifications. These types are mapped with GORM and form
// the core data layer of the team chat backend.
package domain

import "time"

// Room represents a named group-chat channel. Its creator is always an
// implicit moderator even when the membership row does not carry the flag.
//
// Fields:
//   - ID: auto-increment primary key.
//   - Name: human-readable room name (must be non-empty).
//   - Description: optional free-text description.
//   - CreatedBy: user ID of the room creator; indexed for lookups.
//   - IsPrivate: private rooms are hidden from the public room listing.
//   - CreatedAt / UpdatedAt: UTC timestamps; UpdatedAt is bumped on every
//     message sent to the room so listings can sort by activity.
type Room struct {
	ID          int64     `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedBy   int64     `json:"created_by"  gorm:"not null;index"`
	IsPrivate   bool      `json:"is_private"  gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
}

// TableName returns the database table name for Room.
func (Room) TableName() string { return "rooms" }

// RoomMember links a user to a room. The (room_id, user_id) pair is unique,
// which makes join/invite idempotent at the storage level.
type RoomMember struct {
	ID          int64     `json:"id"           gorm:"primaryKey;autoIncrement"`
	RoomID      int64     `json:"room_id"      gorm:"not null;index;uniqueIndex:ux_room_user,priority:1"`
	UserID      int64     `json:"user_id"      gorm:"not null;index;uniqueIndex:ux_room_user,priority:2"`
	IsModerator bool      `json:"is_moderator" gorm:"not null;default:false"`
	JoinedAt    time.Time `json:"joined_at"`
}

// TableName returns the database table name for RoomMember.
func (RoomMember) TableName() string { return "room_members" }

// RoomMessage is a single message posted to a room. Messages are immutable
// once created; they are only removed when the owning room is deleted.
type RoomMessage struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	RoomID    int64     `json:"room_id"    gorm:"not null;index:idx_room_msgs,priority:1"`
	UserID    int64     `json:"user_id"    gorm:"not null"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_room_msgs,priority:2"`

	// Enriched at read time from the user directory; never persisted.
	UserName   string `json:"user_name,omitempty"   gorm:"-"`
	UserAvatar string `json:"user_avatar,omitempty" gorm:"-"`
}

// TableName returns the database table name for RoomMessage.
func (RoomMessage) TableName() string { return "room_messages" }

// Conversation is a 1:1 direct-message thread between two users. The pair is
// stored canonically with UserOne < UserTwo so that the unique index enforces
// exactly one conversation per unordered pair.
type Conversation struct {
	ID        int64     `json:"id"       gorm:"primaryKey;autoIncrement"`
	UserOne   int64     `json:"user_one" gorm:"not null;index;uniqueIndex:ux_user_pair,priority:1"`
	UserTwo   int64     `json:"user_two" gorm:"not null;index;uniqueIndex:ux_user_pair,priority:2"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "direct_conversations" }

// DirectMessage is one message inside a direct conversation. The only allowed
// mutation is the is_read transition (false to true); rows are never deleted.
type DirectMessage struct {
	ID             int64     `json:"id"              gorm:"primaryKey;autoIncrement"`
	ConversationID int64     `json:"conversation_id" gorm:"not null;index:idx_conv_msgs,priority:1"`
	SenderID       int64     `json:"sender_id"       gorm:"not null;index"`
	Message        string    `json:"message"         gorm:"type:text;not null"`
	IsRead         bool      `json:"is_read"         gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at"      gorm:"index:idx_conv_msgs,priority:2"`

	// Enriched at read time from the user directory; never persisted.
	SenderName   string `json:"sender_name,omitempty"   gorm:"-"`
	SenderAvatar string `json:"sender_avatar,omitempty" gorm:"-"`
}

// TableName returns the database table name for DirectMessage.
func (DirectMessage) TableName() string { return "direct_messages" }

// Notification is an informational record attached to a user, created as a
// side effect of room and direct-message activity. Data carries an opaque
// JSON payload (e.g. {"room_id": 7}) for the client to act on.
type Notification struct {
	ID        int64     `json:"id"      gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;index:idx_user_notifs,priority:1"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Type      string    `json:"type"    gorm:"type:varchar(64);not null"`
	Data      string    `json:"-"       gorm:"type:text"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_user_notifs,priority:2"`

	// Payload is the decoded form of Data, populated at read time.
	Payload map[string]any `json:"data,omitempty" gorm:"-"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// UserActivity records the last time a user touched the chat surfaces. The
// online heuristic treats a user as online when this timestamp falls within
// the configured presence window (default five minutes).
type UserActivity struct {
	UserID     int64     `json:"user_id"     gorm:"primaryKey"`
	LastActive time.Time `json:"last_active" gorm:"not null"`
}

// TableName returns the database table name for UserActivity.
func (UserActivity) TableName() string { return "user_activity" }
