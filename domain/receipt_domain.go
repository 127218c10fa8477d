package domain

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessUploadReceipt   = "receipt uploaded successfully"
	MessageSuccessGetReceipt      = "receipt retrieved successfully"
	MessageSuccessAcceptReceipt   = "receipt accepted successfully"
	MessageSuccessRejectReceipt   = "receipt rejected successfully"
	MessageSuccessRetryExtraction = "receipt extraction retried successfully"
	MessageSuccessSubmitFeedback  = "feedback submitted successfully"

	MessageFailedUploadReceipt   = "failed to upload receipt"
	MessageFailedGetReceipt      = "failed to retrieve receipt"
	MessageFailedAcceptReceipt   = "failed to accept receipt"
	MessageFailedRejectReceipt   = "failed to reject receipt"
	MessageFailedRetryExtraction = "failed to retry receipt extraction"
	MessageFailedSubmitFeedback  = "failed to submit feedback"

	ErrReceiptAlreadyAccepted = errors.New("receipt has already been accepted")
	ErrReceiptNotPending      = errors.New("receipt is not pending extraction")
)

type (
	UploadReceiptRequest struct {
		ReceiptImage *multipart.FileHeader `json:"receipt_image" form:"receipt_image" validate:"required"`
	}

	UploadReceiptResponse struct {
		OCRID    string `json:"ocr_id"`
		ImageURL string `json:"image_url"`
		Status   string `json:"status"`
	}

	ReceiptStatusResponse struct {
		OCRID  string `json:"ocr_id"`
		Status string `json:"status"`
	}

	ReceiptItemResponse struct {
		Name       string          `json:"name"`
		Quantity   int             `json:"quantity"`
		UnitPrice  decimal.Decimal `json:"unit_price"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}

	ReceiptCategoryResponse struct {
		CategoryID     string `json:"category_id,omitempty"`
		UserCategoryID string `json:"user_category_id,omitempty"`
		Name           string `json:"name,omitempty"`
	}

	ConfidenceScores struct {
		MerchantName    float64 `json:"merchant_name"`
		TotalAmount     float64 `json:"total_amount"`
		TransactionDate float64 `json:"transaction_date"`
		PaymentMethod   float64 `json:"payment_method"`
	}

	ReceiptDetailResponse struct {
		OCRID           string                   `json:"ocr_id"`
		ImageURL        string                   `json:"image_url"`
		Status          string                   `json:"status"`
		MerchantName    *string                  `json:"merchant_name"`
		TotalAmount     *decimal.Decimal         `json:"total_amount"`
		TransactionDate *time.Time               `json:"transaction_date"`
		PaymentMethod   *string                  `json:"payment_method"`
		Category        *ReceiptCategoryResponse `json:"category,omitempty"`
		Confidence      ConfidenceScores         `json:"confidence_scores"`
		Items           []ReceiptItemResponse    `json:"items"`
		CreatedAt       time.Time                `json:"created_at"`
	}

	// AcceptReceiptRequest carries optional user corrections. Every field left
	// empty keeps the value the extraction produced.
	AcceptReceiptItem struct {
		Name       string  `json:"name" validate:"required"`
		Quantity   int     `json:"quantity" validate:"omitempty,min=1"`
		UnitPrice  float64 `json:"unit_price" validate:"omitempty,min=0"`
		TotalPrice float64 `json:"total_price" validate:"omitempty,min=0"`
	}

	AcceptReceiptRequest struct {
		MerchantName    string              `json:"merchant_name" validate:"omitempty"`
		TotalAmount     string              `json:"total_amount" validate:"omitempty"`
		TransactionDate string              `json:"transaction_date" validate:"omitempty"`
		PaymentMethod   string              `json:"payment_method" validate:"omitempty"`
		CategoryID      string              `json:"category_id" validate:"omitempty,uuid"`
		UserCategoryID  string              `json:"user_category_id" validate:"omitempty,uuid"`
		Notes           string              `json:"notes" validate:"omitempty,max=500"`
		Items           []AcceptReceiptItem `json:"items" validate:"omitempty,dive"`
	}

	AcceptReceiptResponse struct {
		ExpenseID string `json:"expense_id"`
		OCRID     string `json:"ocr_id"`
	}

	SubmitFeedbackRequest struct {
		FieldName     string `json:"field_name" validate:"required"`
		OriginalText  string `json:"original_text" validate:"omitempty"`
		CorrectedText string `json:"corrected_text" validate:"required"`
	}
)
