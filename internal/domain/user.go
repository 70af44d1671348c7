package domain

import "time"

// User is a row in the local user directory. The chat core treats identity as
// an external collaborator; this table is the default directory backing so a
// single-binary deployment works out of the box.
type User struct {
	ID          int64     `json:"id"           gorm:"primaryKey;autoIncrement"`
	Login       string    `json:"login"        gorm:"type:varchar(64);not null;uniqueIndex"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(255);not null"`
	Email       string    `json:"email"        gorm:"type:varchar(255);not null;uniqueIndex"`
	AvatarURL   string    `json:"avatar_url"   gorm:"type:varchar(512)"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }
