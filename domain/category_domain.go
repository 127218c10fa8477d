package domain

import (
	"time"
)

var (
	MessageSuccessGetCategories      = "categories retrieved successfully"
	MessageSuccessCreateUserCategory = "user category created successfully"

	MessageFailedGetCategories      = "failed to retrieve categories"
	MessageFailedCreateUserCategory = "failed to create user category"
)

type (
	CategoryResponse struct {
		ID             string    `json:"id"`
		Name           string    `json:"name"`
		Icon           string    `json:"icon"`
		Color          string    `json:"color"`
		IsUserCategory bool      `json:"is_user_category"`
		CreatedAt      time.Time `json:"created_at"`
	}

	CreateUserCategoryRequest struct {
		Name  string `json:"name" validate:"required,max=50"`
		Icon  string `json:"icon" validate:"required,max=50"`
		Color string `json:"color" validate:"required,hexcolor"`
	}
)
