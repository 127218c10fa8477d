package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessGetExpenses = "expenses retrieved successfully"
	MessageSuccessGetExpense  = "expense retrieved successfully"

	MessageFailedGetExpenses = "failed to retrieve expenses"
	MessageFailedGetExpense  = "failed to retrieve expense"
)

type (
	ExpenseItemResponse struct {
		Name       string          `json:"name"`
		Quantity   int             `json:"quantity"`
		UnitPrice  decimal.Decimal `json:"unit_price"`
		TotalPrice decimal.Decimal `json:"total_price"`
	}

	ExpenseResponse struct {
		ExpenseID       string          `json:"expense_id"`
		MerchantName    string          `json:"merchant_name"`
		TotalAmount     decimal.Decimal `json:"total_amount"`
		TransactionDate time.Time       `json:"transaction_date"`
		PaymentMethod   string          `json:"payment_method,omitempty"`
		Category        string          `json:"category,omitempty"`
		Notes           string          `json:"notes,omitempty"`
		HasReceipt      bool            `json:"has_receipt_image"`
		CreatedAt       time.Time       `json:"created_at"`
	}

	ExpenseDetailResponse struct {
		ExpenseResponse
		Items []ExpenseItemResponse `json:"items"`
	}
)
