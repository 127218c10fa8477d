package expense

import (
	"context"
	"errors"

	"github.com/nabil-devId/expensee-api/domain"
	"github.com/nabil-devId/expensee-api/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ExpenseService interface {
		GetExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]domain.ExpenseResponse, int64, error)
		GetExpenseByID(ctx context.Context, id string, userID string) (domain.ExpenseDetailResponse, error)
	}

	expenseService struct {
		expenseRepository ExpenseRepository
	}
)

func NewExpenseService(expenseRepository ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepository: expenseRepository}
}

func (s *expenseService) GetExpenses(ctx context.Context, userID string, filter ExpenseFilter) ([]domain.ExpenseResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	expenses, count, err := s.expenseRepository.GetExpenses(ctx, userID, filter)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		response = append(response, toExpenseResponse(e))
	}
	return response, count, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, id string, userID string) (domain.ExpenseDetailResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ExpenseDetailResponse{}, domain.ErrExpenseNotFound
	}

	expense, err := s.expenseRepository.GetExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ExpenseDetailResponse{}, domain.ErrExpenseNotFound
		}
		return domain.ExpenseDetailResponse{}, err
	}
	if expense.UserID.String() != userID {
		return domain.ExpenseDetailResponse{}, domain.ErrExpenseNotFound
	}

	response := domain.ExpenseDetailResponse{
		ExpenseResponse: toExpenseResponse(expense),
		Items:           make([]domain.ExpenseItemResponse, 0, len(expense.Items)),
	}
	for _, item := range expense.Items {
		response.Items = append(response.Items, domain.ExpenseItemResponse{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return response, nil
}

func toExpenseResponse(e *entities.ExpenseHistory) domain.ExpenseResponse {
	categoryName := ""
	if e.Category != nil {
		categoryName = e.Category.Name
	} else if e.UserCategory != nil {
		categoryName = e.UserCategory.Name
	}

	return domain.ExpenseResponse{
		ExpenseID:       e.ID.String(),
		MerchantName:    e.MerchantName,
		TotalAmount:     e.TotalAmount,
		TransactionDate: e.TransactionDate,
		PaymentMethod:   e.PaymentMethod,
		Category:        categoryName,
		Notes:           e.Notes,
		HasReceipt:      e.OCRResultID != nil,
		CreatedAt:       e.CreatedAt,
	}
}
