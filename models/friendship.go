package models

import "gorm.io/gorm"

// Friendship is one edge of the social graph. Status "pending" doubles
// as a friend request; "accepted" is a live edge.
type Friendship struct {
	gorm.Model
	RequesterUserID uint   `gorm:"not null;index"`
	AddresseeUserID uint   `gorm:"not null;index"`
	Status          string `gorm:"not null;default:'pending'"` // pending, accepted

	RequesterUser User `gorm:"foreignKey:RequesterUserID"`
	AddresseeUser User `gorm:"foreignKey:AddresseeUserID"`
}
