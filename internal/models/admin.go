package models

import (
	"gorm.io/gorm"
)

// Admin is a panel user. Passwords are stored as bcrypt hashes only.
type Admin struct {
	gorm.Model
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
}
