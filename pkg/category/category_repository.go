package category

import (
	"context"

	"github.com/nabil-devId/expensee-api/entities"

	"gorm.io/gorm"
)

type (
	CategoryRepository interface {
		GetCategories(ctx context.Context) ([]*entities.Category, error)
		GetCategoryByID(ctx context.Context, id string) (*entities.Category, error)
		GetUserCategories(ctx context.Context, userID string) ([]*entities.UserCategory, error)
		GetUserCategoryByID(ctx context.Context, id string) (*entities.UserCategory, error)
		CreateUserCategory(ctx context.Context, userCategory *entities.UserCategory) error
	}

	categoryRepository struct {
		db *gorm.DB
	}
)

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetCategories(ctx context.Context) ([]*entities.Category, error) {
	var categories []*entities.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id string) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetUserCategories(ctx context.Context, userID string) ([]*entities.UserCategory, error) {
	var categories []*entities.UserCategory
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetUserCategoryByID(ctx context.Context, id string) (*entities.UserCategory, error) {
	var category entities.UserCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) CreateUserCategory(ctx context.Context, userCategory *entities.UserCategory) error {
	return r.db.WithContext(ctx).Create(userCategory).Error
}
