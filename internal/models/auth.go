package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	Base
	Name        string              `gorm:"not null" json:"name" validate:"required"`
	Email       string              `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string              `gorm:"not null" json:"-"`
	Role        UserRole            `gorm:"not null;default:'admin'" json:"role" validate:"required,user_role"`
	Permissions datatypes.JSONMap   `gorm:"type:jsonb" json:"permissions"`
	Reports     []SupervisionReport `gorm:"foreignKey:UserID" json:"reports,omitempty"`
}

type AuthTransaction struct {
	Base
	UserID    string    `gorm:"type:uuid;not null" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Token     string    `gorm:"not null" json:"token"`
	Refresh   string    `gorm:"not null" json:"refresh"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
}
