package models

import "gorm.io/gorm"

const (
	RoleMember     = "member"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
	RoleOwner      = "owner"
)

type User struct {
	gorm.Model
	TenantID     uint   `gorm:"index;not null"`
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:member"` // member, instructor, admin, owner
}

// IsStaff reports whether the user may manage content and member access.
func (u *User) IsStaff() bool {
	return u.Role == RoleInstructor || u.Role == RoleAdmin || u.Role == RoleOwner
}
