package model

import "time"

type UserRole string

const (
	Guest UserRole = "guest"
	Host  UserRole = "host"
	Admin UserRole = "admin"
)

// swagger:model User
type User struct {
	UUIDBase
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	Name         string     `gorm:"size:100" json:"name"`
	Role         UserRole   `gorm:"size:20;default:'guest'" json:"role"`
	AvatarURL    string     `gorm:"size:512" json:"avatarUrl,omitempty"`
	Provider     string     `gorm:"size:50" json:"provider,omitempty"` // 第三方登录提供商
	Disabled     bool       `gorm:"default:false" json:"disabled"`
	LastSeenAt   *time.Time `json:"lastSeenAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}
