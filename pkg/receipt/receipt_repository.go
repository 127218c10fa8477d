package receipt

import (
	"context"
	"errors"

	"github.com/nabil-devId/expensee-api/domain"
	"github.com/nabil-devId/expensee-api/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ReceiptRepository interface {
		CreateOCRResult(ctx context.Context, result *entities.OCRResult) error
		GetOCRResultByID(ctx context.Context, id string) (*entities.OCRResult, error)
		// CompleteExtraction persists the extracted fields and line items in
		// one transaction and moves the draft to processed. Any previously
		// extracted items are replaced wholesale.
		CompleteExtraction(ctx context.Context, result *entities.OCRResult, items []*entities.OCRResultItem) error
		// Accept re-checks the draft status under a row lock, writes the
		// ledger expense with its items and marks the draft accepted, all in
		// one transaction.
		Accept(ctx context.Context, result *entities.OCRResult, expense *entities.ExpenseHistory, items []*entities.ExpenseItem) error
		// Reject moves any non-terminal draft to rejected under a row lock.
		Reject(ctx context.Context, id string) error
		UpdateOCRResult(ctx context.Context, result *entities.OCRResult) error
		CreateFeedback(ctx context.Context, feedback *entities.OCRFeedback) error
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) CreateOCRResult(ctx context.Context, result *entities.OCRResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *receiptRepository) GetOCRResultByID(ctx context.Context, id string) (*entities.OCRResult, error) {
	var result entities.OCRResult
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Category").
		Preload("UserCategory").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *receiptRepository) CompleteExtraction(ctx context.Context, result *entities.OCRResult, items []*entities.OCRResultItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current entities.OCRResult
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", result.ID).
			First(&current).Error; err != nil {
			return err
		}
		if current.ReceiptStatus != entities.ReceiptStatusPending {
			return domain.ErrInvalidState
		}

		result.ReceiptStatus = entities.ReceiptStatusProcessed
		if err := tx.Save(result).Error; err != nil {
			return err
		}

		if err := tx.Where("ocr_result_id = ?", result.ID).
			Delete(&entities.OCRResultItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *receiptRepository) Accept(ctx context.Context, result *entities.OCRResult, expense *entities.ExpenseHistory, items []*entities.ExpenseItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current entities.OCRResult
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", result.ID).
			First(&current).Error; err != nil {
			return err
		}
		// The status check and the write happen under the same lock so two
		// concurrent accepts cannot both pass.
		if current.ReceiptStatus == entities.ReceiptStatusAccepted {
			return domain.ErrReceiptAlreadyAccepted
		}
		if current.ReceiptStatus != entities.ReceiptStatusProcessed {
			return domain.ErrInvalidState
		}

		if err := tx.Create(expense).Error; err != nil {
			return err
		}
		for _, item := range items {
			item.ExpenseID = expense.ID
		}
		if len(items) > 0 {
			if err := tx.Create(items).Error; err != nil {
				return err
			}
		}

		result.ReceiptStatus = entities.ReceiptStatusAccepted
		return tx.Save(result).Error
	})
}

func (r *receiptRepository) Reject(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current entities.OCRResult
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrReceiptNotFound
			}
			return err
		}
		if current.ReceiptStatus == entities.ReceiptStatusAccepted ||
			current.ReceiptStatus == entities.ReceiptStatusRejected {
			return domain.ErrInvalidState
		}

		current.ReceiptStatus = entities.ReceiptStatusRejected
		return tx.Save(&current).Error
	})
}

func (r *receiptRepository) UpdateOCRResult(ctx context.Context, result *entities.OCRResult) error {
	return r.db.WithContext(ctx).Save(result).Error
}

func (r *receiptRepository) CreateFeedback(ctx context.Context, feedback *entities.OCRFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}
