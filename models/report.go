package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReportStatusOpen      = "open"
	ReportStatusDismissed = "dismissed"
)

// Report captures the sender and image ref at filing time so the report
// survives later deletion of the delivery it points at.
type Report struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	PictureID  uint   `gorm:"not null;index" json:"picture_id"`
	PictureRef string `gorm:"not null" json:"picture_ref"`
	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	ReporterID uint   `gorm:"not null;index" json:"reporter_id"`
	Reason     string `json:"reason"`
	Status     string `gorm:"not null;default:'open'" json:"status"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Reporter User `gorm:"foreignKey:ReporterID" json:"-"`
}
