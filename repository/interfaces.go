package repository

import (
	"github.com/camden-git/campaidbackend/models"
)

// UserRepository defines the methods for admin account data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Count() (int64, error)

	// role management for a user
	AddRoleToUser(userID uint, roleID uint) error
}

// RoleRepository defines the methods for role data operations
type RoleRepository interface {
	Create(role *models.Role) error
	GetByName(name string) (*models.Role, error)
	Update(role *models.Role) error
}
