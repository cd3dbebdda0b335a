package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Conversation struct {
	gorm.Model
	Title       string `gorm:"type:varchar(255)"`
	IsGroup     bool   `gorm:"default:false"`
	OwnerUserID uint   `gorm:"not null;index"`

	OwnerUser    User                      `gorm:"foreignKey:OwnerUserID"`
	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID"`
	Messages     []Message                 `gorm:"foreignKey:ConversationID"`
}

type ConversationParticipant struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Message rows are append-only.
type Message struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint           `gorm:"not null;index" json:"conversation_id"`
	SenderUserID   uint           `gorm:"not null;index" json:"sender_user_id"`
	Body           string         `gorm:"type:text" json:"body"`
	Attachments    pq.StringArray `gorm:"type:text[]" json:"attachments"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
