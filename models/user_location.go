package models

import "time"

// UserLocation keeps the last reported coordinate per user. One row per
// user, overwritten on every report. Separate lat/lng columns so the
// radius query stays portable plain SQL.
type UserLocation struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Latitude    float64   `gorm:"not null;type:decimal(10,8)" json:"latitude"`
	Longitude   float64   `gorm:"not null;type:decimal(11,8)" json:"longitude"`
	LastUpdated time.Time `gorm:"not null" json:"last_updated"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserLocation) TableName() string {
	return "user_locations"
}
