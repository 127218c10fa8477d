package entities

import (
	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"category_id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	IsDefault bool      `gorm:"default:true" json:"is_default"`

	Timestamp
}

type UserCategory struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"user_category_id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Icon   string    `json:"icon"`
	Color  string    `json:"color"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
