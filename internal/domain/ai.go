// Package domain defines the persistence models for the team chat backend.
// This file holds the models for the assistant-backed chat surface.
package domain

import "time"

// AIConversation is an append-only conversation between one user and the
// configured completion provider. TopicID optionally binds the conversation
// to a context document whose content is sent as the system message.
type AIConversation struct {
	ID        int64     `json:"id"       gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id"  gorm:"not null;index"`
	TopicID   int64     `json:"topic_id" gorm:"not null;default:0"`
	Title     string    `json:"title"    gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

// TableName returns the database table name for AIConversation.
func (AIConversation) TableName() string { return "ai_conversations" }

// AIMessage is a single utterance in an assistant conversation. IsAI marks
// provider replies; user prompts carry IsAI=false.
type AIMessage struct {
	ID             int64     `json:"id"              gorm:"primaryKey;autoIncrement"`
	ConversationID int64     `json:"conversation_id" gorm:"not null;index:idx_ai_msgs,priority:1"`
	UserID         int64     `json:"user_id"         gorm:"not null"`
	Message        string    `json:"message"         gorm:"type:text;not null"`
	IsAI           bool      `json:"is_ai"           gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at"      gorm:"index:idx_ai_msgs,priority:2"`
}

// TableName returns the database table name for AIMessage.
func (AIMessage) TableName() string { return "ai_messages" }
