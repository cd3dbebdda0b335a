package models

import "time"

// BroadcastDelivery is one recipient's copy of a broadcast. Immutable
// after creation; only deleted (by the receiver discarding it, or by a
// moderation ban of the sender).
type BroadcastDelivery struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	ImageRef   string    `gorm:"not null" json:"image_ref"`
	SentAt     time.Time `gorm:"not null" json:"sent_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}
