package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email    string    `gorm:"uniqueIndex" json:"email"`
	FullName string    `json:"full_name"`
	Password string    `json:"-"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	Timestamp
}
