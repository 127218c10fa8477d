package domain

import (
	"errors"
)

const (
	RoleUser = "user"
)

var (
	MessageFailedBodyRequest  = "failed to process request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"

	ErrParseUUID     = errors.New("failed to parse UUID")
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// Error taxonomy for the receipt pipeline. Ownership failures surface as
// not-found so callers cannot probe for record existence.
var (
	ErrReceiptNotFound  = errors.New("receipt not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrExpenseNotFound  = errors.New("expense not found")

	ErrStorage    = errors.New("object storage failure")
	ErrExtraction = errors.New("receipt extraction failed")

	ErrInvalidState      = errors.New("invalid receipt state transition")
	ErrCategoryRequired  = errors.New("a category is required to accept a receipt")
	ErrBothCategoriesSet = errors.New("system and user category are mutually exclusive")

	ErrInvalidImageFormat = errors.New("invalid image format")
)
