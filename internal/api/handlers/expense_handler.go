package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/nabil-devId/expensee-api/domain"
	"github.com/nabil-devId/expensee-api/internal/api/presenters"
	"github.com/nabil-devId/expensee-api/pkg/expense"

	"github.com/gofiber/fiber/v2"
)

type (
	ExpenseHandler interface {
		GetExpenses(c *fiber.Ctx) error
		GetExpenseDetail(c *fiber.Ctx) error
	}

	expenseHandler struct {
		expenseService expense.ExpenseService
	}
)

func NewExpenseHandler(expenseService expense.ExpenseService) ExpenseHandler {
	return &expenseHandler{expenseService: expenseService}
}

func (h *expenseHandler) GetExpenses(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	filter := expense.ExpenseFilter{
		Merchant: c.Query("merchant"),
		Page:     page,
		Limit:    limit,
	}
	if from := c.Query("from_date"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetExpenses, err)
		}
		filter.FromDate = &t
	}
	if to := c.Query("to_date"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetExpenses, err)
		}
		filter.ToDate = &t
	}

	expenses, count, err := h.expenseService.GetExpenses(c.Context(), userID, filter)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetExpenses, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"expenses": expenses,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetExpenses)
}

func (h *expenseHandler) GetExpenseDetail(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	expenseID := c.Params("id")

	res, err := h.expenseService.GetExpenseByID(c.Context(), expenseID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetExpense, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetExpense, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetExpense)
}
