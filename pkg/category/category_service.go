package category

import (
	"context"

	"github.com/nabil-devId/expensee-api/domain"
	"github.com/nabil-devId/expensee-api/entities"

	"github.com/google/uuid"
)

type (
	CategoryService interface {
		// GetCategories returns system categories followed by the user's own.
		GetCategories(ctx context.Context, userID string) ([]domain.CategoryResponse, error)
		CreateUserCategory(ctx context.Context, req domain.CreateUserCategoryRequest, userID string) (domain.CategoryResponse, error)
	}

	categoryService struct {
		categoryRepository CategoryRepository
	}
)

func NewCategoryService(categoryRepository CategoryRepository) CategoryService {
	return &categoryService{categoryRepository: categoryRepository}
}

func (s *categoryService) GetCategories(ctx context.Context, userID string) ([]domain.CategoryResponse, error) {
	systemCategories, err := s.categoryRepository.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	userCategories, err := s.categoryRepository.GetUserCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.CategoryResponse, 0, len(systemCategories)+len(userCategories))
	for _, c := range systemCategories {
		response = append(response, domain.CategoryResponse{
			ID:        c.ID.String(),
			Name:      c.Name,
			Icon:      c.Icon,
			Color:     c.Color,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, c := range userCategories {
		response = append(response, domain.CategoryResponse{
			ID:             c.ID.String(),
			Name:           c.Name,
			Icon:           c.Icon,
			Color:          c.Color,
			IsUserCategory: true,
			CreatedAt:      c.CreatedAt,
		})
	}
	return response, nil
}

func (s *categoryService) CreateUserCategory(ctx context.Context, req domain.CreateUserCategoryRequest, userID string) (domain.CategoryResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CategoryResponse{}, domain.ErrParseUUID
	}

	userCategory := &entities.UserCategory{
		ID:     uuid.New(),
		UserID: userUUID,
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	}

	if err := s.categoryRepository.CreateUserCategory(ctx, userCategory); err != nil {
		return domain.CategoryResponse{}, err
	}

	return domain.CategoryResponse{
		ID:             userCategory.ID.String(),
		Name:           userCategory.Name,
		Icon:           userCategory.Icon,
		Color:          userCategory.Color,
		IsUserCategory: true,
		CreatedAt:      userCategory.CreatedAt,
	}, nil
}
