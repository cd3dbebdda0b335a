package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

const (
	AccountStatusActive = "active"
	AccountStatusBanned = "banned"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Username      string         `gorm:"unique;not null" json:"username"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Phone         string         `json:"phone"`
	Password      string         `gorm:"not null" json:"-"` // Don't expose password in JSON
	GoogleID      *string        `gorm:"index" json:"-"`
	Bio           string         `json:"bio"`
	Avatar        string         `json:"avatar"`
	Role          string         `gorm:"not null;default:'user'" json:"role"`
	AccountStatus string         `gorm:"not null;default:'active'" json:"account_status"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

func (u *User) IsBanned() bool {
	return u.AccountStatus == AccountStatusBanned
}
