package handlers

import (
	"errors"

	"github.com/nabil-devId/expensee-api/domain"
	"github.com/nabil-devId/expensee-api/internal/api/presenters"
	"github.com/nabil-devId/expensee-api/pkg/receipt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReceiptHandler interface {
		UploadReceipt(c *fiber.Ctx) error
		GetReceiptStatus(c *fiber.Ctx) error
		GetReceiptDetail(c *fiber.Ctx) error
		AcceptReceipt(c *fiber.Ctx) error
		RejectReceipt(c *fiber.Ctx) error
		RetryExtraction(c *fiber.Ctx) error
		SubmitFeedback(c *fiber.Ctx) error
	}

	receiptHandler struct {
		receiptService receipt.ReceiptService
		validator      *validator.Validate
	}
)

func NewReceiptHandler(receiptService receipt.ReceiptService, validator *validator.Validate) ReceiptHandler {
	return &receiptHandler{
		receiptService: receiptService,
		validator:      validator,
	}
}

func (h *receiptHandler) UploadReceipt(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadReceiptRequest)

	file, err := c.FormFile("receipt_image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.ReceiptImage = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadReceipt, err)
	}

	res, err := h.receiptService.UploadReceipt(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidImageFormat) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadReceipt, err)
		}
		if errors.Is(err, domain.ErrStorage) {
			return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedUploadReceipt, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUploadReceipt, err)
	}

	// 202: the draft exists even when extraction has not produced fields yet.
	return presenters.SuccessResponse(c, res, fiber.StatusAccepted, domain.MessageSuccessUploadReceipt)
}

func (h *receiptHandler) GetReceiptStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	ocrID := c.Params("id")

	res, err := h.receiptService.GetReceiptStatus(c.Context(), ocrID, userID)
	if err != nil {
		return receiptErrorResponse(c, domain.MessageFailedGetReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReceipt)
}

func (h *receiptHandler) GetReceiptDetail(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	ocrID := c.Params("id")

	res, err := h.receiptService.GetReceiptDetail(c.Context(), ocrID, userID)
	if err != nil {
		return receiptErrorResponse(c, domain.MessageFailedGetReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReceipt)
}

func (h *receiptHandler) AcceptReceipt(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	ocrID := c.Params("id")
	req := new(domain.AcceptReceiptRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAcceptReceipt, err)
	}

	res, err := h.receiptService.AcceptReceipt(c.Context(), ocrID, *req, userID)
	if err != nil {
		return receiptErrorResponse(c, domain.MessageFailedAcceptReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAcceptReceipt)
}

func (h *receiptHandler) RejectReceipt(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	ocrID := c.Params("id")

	if err := h.receiptService.RejectReceipt(c.Context(), ocrID, userID); err != nil {
		return receiptErrorResponse(c, domain.MessageFailedRejectReceipt, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRejectReceipt)
}

func (h *receiptHandler) RetryExtraction(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	ocrID := c.Params("id")

	res, err := h.receiptService.RetryExtraction(c.Context(), ocrID, userID)
	if err != nil {
		return receiptErrorResponse(c, domain.MessageFailedRetryExtraction, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRetryExtraction)
}

func (h *receiptHandler) SubmitFeedback(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	ocrID := c.Params("id")
	req := new(domain.SubmitFeedbackRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitFeedback, err)
	}

	if err := h.receiptService.SubmitFeedback(c.Context(), ocrID, *req, userID); err != nil {
		return receiptErrorResponse(c, domain.MessageFailedSubmitFeedback, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessSubmitFeedback)
}

func receiptErrorResponse(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrReceiptNotFound), errors.Is(err, domain.ErrCategoryNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrReceiptAlreadyAccepted),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrReceiptNotPending):
		return presenters.ErrorResponse(c, fiber.StatusConflict, message, err)
	case errors.Is(err, domain.ErrCategoryRequired), errors.Is(err, domain.ErrBothCategoriesSet):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	case errors.Is(err, domain.ErrStorage):
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, message, err)
	default:
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
	}
}
