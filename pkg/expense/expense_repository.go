package expense

import (
	"context"
	"time"

	"github.com/nabil-devId/expensee-api/entities"

	"gorm.io/gorm"
)

type (
	ExpenseFilter struct {
		FromDate *time.Time
		ToDate   *time.Time
		Merchant string
		Page     int
		Limit    int
	}

	ExpenseRepository interface {
		GetExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]*entities.ExpenseHistory, int64, error)
		GetExpenseByID(ctx context.Context, id string) (*entities.ExpenseHistory, error)
	}

	expenseRepository struct {
		db *gorm.DB
	}
)

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) GetExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]*entities.ExpenseHistory, int64, error) {
	var expenses []*entities.ExpenseHistory
	var count int64

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		query = query.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("transaction_date <= ?", *filter.ToDate)
	}
	if filter.Merchant != "" {
		query = query.Where("merchant_name ILIKE ?", "%"+filter.Merchant+"%")
	}

	if err := query.Model(&entities.ExpenseHistory{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Category").
		Preload("UserCategory").
		Order("transaction_date desc").
		Offset(offset).
		Limit(filter.Limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, count, nil
}

func (r *expenseRepository) GetExpenseByID(ctx context.Context, id string) (*entities.ExpenseHistory, error) {
	var expense entities.ExpenseHistory
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Category").
		Preload("UserCategory").
		Where("id = ?", id).
		First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}
