package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an administrator account of the camp registry.
type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Username          string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash      string    `json:"-" gorm:"not null"`
	GlobalPermissions []string  `json:"global_permissions" gorm:"serializer:json"`
	Roles             []*Role   `json:"roles,omitempty" gorm:"many2many:user_roles;"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HasGlobalPermission checks direct permissions first, then those granted by roles.
// Roles must be preloaded.
func (u *User) HasGlobalPermission(permission string) bool {
	for _, p := range u.GlobalPermissions {
		if p == permission {
			return true
		}
	}

	for _, role := range u.Roles {
		if role == nil {
			continue
		}
		for _, p := range role.GlobalPermissions {
			if p == permission {
				return true
			}
		}
	}
	return false
}
