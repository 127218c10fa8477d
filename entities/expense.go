package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseHistory struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"expense_id"`
	UserID          uuid.UUID       `json:"user_id"`
	OCRResultID     *uuid.UUID      `json:"ocr_id,omitempty"`
	MerchantName    string          `json:"merchant_name"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	UserCategoryID  *uuid.UUID      `json:"user_category_id,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	IsManualEntry   bool            `gorm:"default:false" json:"is_manual_entry"`

	User         *User          `gorm:"foreignKey:UserID"`
	OCRResult    *OCRResult     `gorm:"foreignKey:OCRResultID"`
	Category     *Category      `gorm:"foreignKey:CategoryID"`
	UserCategory *UserCategory  `gorm:"foreignKey:UserCategoryID"`
	Items        []*ExpenseItem `gorm:"foreignKey:ExpenseID"`
	Timestamp
}

type ExpenseItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"item_id"`
	ExpenseID  uuid.UUID       `json:"expense_id"`
	Name       string          `json:"name"`
	Quantity   int             `gorm:"default:1" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_price"`

	Timestamp
}
