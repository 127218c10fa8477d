package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt draft statuses. A draft starts as pending, becomes processed once
// extraction succeeds, and ends as accepted or rejected.
const (
	ReceiptStatusPending   = "pending"
	ReceiptStatusProcessed = "processed"
	ReceiptStatusAccepted  = "accepted"
	ReceiptStatusRejected  = "rejected"
)

type OCRResult struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"ocr_id"`
	UserID          uuid.UUID        `json:"user_id"`
	ImagePath       string           `json:"image_path"`
	MerchantName    *string          `json:"merchant_name,omitempty"`
	TotalAmount     *decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_amount,omitempty"`
	TransactionDate *time.Time       `json:"transaction_date,omitempty"`
	PaymentMethod   *string          `json:"payment_method,omitempty"`
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"`
	UserCategoryID  *uuid.UUID       `json:"user_category_id,omitempty"`
	ReceiptStatus   string           `gorm:"default:pending" json:"receipt_status"`
	RawOCRData      string           `gorm:"type:text" json:"raw_ocr_data,omitempty"`

	// Per-field confidence reported by the extraction service, 0.0 when the
	// service did not provide one.
	MerchantConfidence float64 `json:"merchant_confidence"`
	AmountConfidence   float64 `json:"amount_confidence"`
	DateConfidence     float64 `json:"date_confidence"`
	PaymentConfidence  float64 `json:"payment_confidence"`

	User         *User            `gorm:"foreignKey:UserID"`
	Category     *Category        `gorm:"foreignKey:CategoryID"`
	UserCategory *UserCategory    `gorm:"foreignKey:UserCategoryID"`
	Items        []*OCRResultItem `gorm:"foreignKey:OCRResultID"`
	Timestamp
}

type OCRResultItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"ocr_item_id"`
	OCRResultID uuid.UUID       `json:"ocr_id"`
	Name        string          `json:"name"`
	Quantity    int             `gorm:"default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_price"`

	Timestamp
}

// OCRFeedback is an append-only record of user corrections on extracted
// fields, kept for a future extraction-quality pipeline. Nothing in the
// accept path reads it back.
type OCRFeedback struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"feedback_id"`
	OCRResultID   uuid.UUID `json:"ocr_id"`
	UserID        uuid.UUID `json:"user_id"`
	FieldName     string    `json:"field_name"`
	OriginalText  string    `json:"original_text"`
	CorrectedText string    `json:"corrected_text"`

	Timestamp
}
