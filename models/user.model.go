package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values carried in the token "role" claim
const (
	RoleAdmin   = "ADMIN"
	RoleProf    = "PROF"
	RoleStudent = "STUDENT"
)

// Level values carried in the token "level" claim
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

type User struct {
	gorm.Model
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	FullName  string    `gorm:"size:100;default:''" json:"fullName"`
	Role      string    `gorm:"size:20;default:'STUDENT'" json:"role"`
	Level     string    `gorm:"size:20;default:'BEGINNER'" json:"level"`
	LastLogin time.Time `gorm:"default:NULL" json:"lastLogin"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
}

// ValidRole reports whether r is one of the known roles
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleProf, RoleStudent:
		return true
	}
	return false
}

// ValidLevel reports whether l is one of the known proficiency levels
func ValidLevel(l string) bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}
