package types

import (
	"time"
)

type User struct {
	ID        string     `gorm:"column:id;size:50;primaryKey"`
	Name      *string    `gorm:"column:name;size:100"`
	Username  string     `gorm:"column:username;size:100;not null;uniqueIndex"`
	Password  string     `gorm:"column:password;size:200;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt *time.Time `gorm:"column:updated_at;type:datetime"`

	Sessions []Session `gorm:"foreignKey:UserID"`
}

type Session struct {
	UserID       string     `gorm:"column:user_id;size:50;not null;index"`
	AccessToken  string     `gorm:"column:access_token;size:500;not null"`
	RefreshToken string     `gorm:"column:refresh_token;size:500;not null"`
	Active       bool       `gorm:"column:active;default:1"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:datetime;not null"`
	RevokedAt    *time.Time `gorm:"column:revoked_at;type:datetime"`

	User User `gorm:"foreignKey:UserID"`
}

type UserFilter struct {
	Username string
}
