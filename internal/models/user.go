package models

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

type User struct {
	ID                 uint64     `gorm:"primarykey" json:"id"`
	Name               string     `gorm:"type:varchar(255);not null" json:"name"`
	Username           string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"type:varchar(255);not null" json:"-"`
	Avatar             string     `gorm:"type:varchar(512);not null;default:''" json:"avatar"`
	Role               UserRole   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	PreviousUsernames  []string   `gorm:"serializer:json;type:text" json:"-"`
	LastUsernameChange *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
