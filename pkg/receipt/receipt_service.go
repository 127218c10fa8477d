package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/nabil-devId/expensee-api/domain"
	"github.com/nabil-devId/expensee-api/entities"
	"github.com/nabil-devId/expensee-api/internal/utils/storage"
	"github.com/nabil-devId/expensee-api/pkg/category"
	"github.com/nabil-devId/expensee-api/pkg/gemini"
	"github.com/nabil-devId/expensee-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type (
	ReceiptService interface {
		// UploadReceipt stores the image, creates a pending draft and runs
		// extraction synchronously. Extraction failures are not fatal: the
		// caller always gets a draft id back, with status pending.
		UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.UploadReceiptResponse, error)
		GetReceiptStatus(ctx context.Context, id string, userID string) (domain.ReceiptStatusResponse, error)
		GetReceiptDetail(ctx context.Context, id string, userID string) (domain.ReceiptDetailResponse, error)
		// AcceptReceipt finalizes a processed draft into exactly one ledger
		// expense, applying any user corrections first.
		AcceptReceipt(ctx context.Context, id string, req domain.AcceptReceiptRequest, userID string) (domain.AcceptReceiptResponse, error)
		RejectReceipt(ctx context.Context, id string, userID string) error
		// RetryExtraction re-runs extraction on a pending draft's stored
		// image, avoiding a duplicate upload.
		RetryExtraction(ctx context.Context, id string, userID string) (domain.ReceiptStatusResponse, error)
		SubmitFeedback(ctx context.Context, id string, req domain.SubmitFeedbackRequest, userID string) error
	}

	receiptService struct {
		receiptRepository  ReceiptRepository
		categoryRepository category.CategoryRepository
		s3                 storage.AwsS3
		extractor          gemini.Client
		log                *zap.Logger
	}
)

func NewReceiptService(
	receiptRepository ReceiptRepository,
	categoryRepository category.CategoryRepository,
	s3 storage.AwsS3,
	extractor gemini.Client,
) ReceiptService {
	return &receiptService{
		receiptRepository:  receiptRepository,
		categoryRepository: categoryRepository,
		s3:                 s3,
		extractor:          extractor,
		log:                logger.Get(),
	}
}

func (s *receiptService) UploadReceipt(ctx context.Context, req domain.UploadReceiptRequest, userID string) (domain.UploadReceiptResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.UploadReceiptResponse{}, domain.ErrParseUUID
	}

	fileBytes, err := readMultipartFile(req.ReceiptImage)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}

	// The original bytes go to storage so the stored object keeps its
	// extension and content type; the preprocessed copy goes to extraction.
	objectKey, err := s.s3.UploadBytes(ctx, fileBytes, req.ReceiptImage.Filename, "receipts", storage.AllowImage...)
	if err != nil {
		return domain.UploadReceiptResponse{}, err
	}
	imageURL := s.s3.GetPublicLinkKey(objectKey)

	result := &entities.OCRResult{
		ID:            uuid.New(),
		UserID:        userUUID,
		ImagePath:     imageURL,
		ReceiptStatus: entities.ReceiptStatusPending,
	}
	if err := s.receiptRepository.CreateOCRResult(ctx, result); err != nil {
		_ = s.s3.DeleteFile(ctx, objectKey)
		return domain.UploadReceiptResponse{}, err
	}

	s.runExtraction(ctx, result, fileBytes)

	return domain.UploadReceiptResponse{
		OCRID:    result.ID.String(),
		ImageURL: imageURL,
		Status:   result.ReceiptStatus,
	}, nil
}

// runExtraction preprocesses the image, calls the extraction service,
// normalizes the result, resolves a category and persists everything as a
// processed draft. Every failure leaves the draft pending; nothing here is
// fatal to the surrounding request.
func (s *receiptService) runExtraction(ctx context.Context, result *entities.OCRResult, fileBytes []byte) {
	processed, converted := PreprocessImage(fileBytes)
	mimeType := "image/png"
	if !converted {
		mimeType = mimeTypeFromPath(result.ImagePath)
	}

	raw, err := s.extractor.ExtractReceipt(ctx, processed, mimeType)
	if err != nil {
		s.log.Warn("receipt extraction failed, draft stays pending",
			zap.String("ocr_id", result.ID.String()),
			zap.Error(err),
		)
		return
	}
	if raw.Failed() {
		s.log.Warn("receipt extraction unparseable, draft stays pending",
			zap.String("ocr_id", result.ID.String()),
			zap.String("parse_error", raw.ParseError),
		)
		return
	}

	normalized := NormalizeExtraction(raw)

	result.MerchantName = &normalized.MerchantName
	result.TotalAmount = &normalized.TotalAmount
	result.TransactionDate = &normalized.TransactionDate
	result.PaymentMethod = &normalized.PaymentMethod
	result.RawOCRData = raw.RawResponse
	result.MerchantConfidence = normalized.Confidence.MerchantName
	result.AmountConfidence = normalized.Confidence.TotalAmount
	result.DateConfidence = normalized.Confidence.TransactionDate
	result.PaymentConfidence = normalized.Confidence.PaymentMethod

	s.resolveCategory(ctx, result, normalized)

	items := make([]*entities.OCRResultItem, 0, len(normalized.Items))
	for _, item := range normalized.Items {
		items = append(items, &entities.OCRResultItem{
			ID:          uuid.New(),
			OCRResultID: result.ID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	if err := s.receiptRepository.CompleteExtraction(ctx, result, items); err != nil {
		s.log.Error("failed to persist extraction, draft stays pending",
			zap.String("ocr_id", result.ID.String()),
			zap.Error(err),
		)
		result.ReceiptStatus = entities.ReceiptStatusPending
		return
	}
	result.Items = items
}

// resolveCategory asks the extraction service for the best category match.
// Resolution is advisory: on any failure the draft simply stays
// uncategorized and the user picks one at accept time.
func (s *receiptService) resolveCategory(ctx context.Context, result *entities.OCRResult, normalized NormalizedReceipt) {
	options, err := s.categoryOptions(ctx, result.UserID.String())
	if err != nil || len(options) == 0 {
		return
	}

	transaction := fmt.Sprintf("merchant: %s, total: %s, date: %s, payment: %s",
		normalized.MerchantName,
		normalized.TotalAmount.String(),
		normalized.TransactionDate.Format("2006-01-02"),
		normalized.PaymentMethod,
	)

	resolution, err := s.extractor.ResolveCategory(ctx, transaction, options)
	if err != nil {
		s.log.Warn("category resolution failed, draft left uncategorized",
			zap.String("ocr_id", result.ID.String()),
			zap.Error(err),
		)
		return
	}

	resolvedID, err := uuid.Parse(resolution.CategoryID)
	if err != nil {
		return
	}
	// Only accept ids that were actually offered; the model may hallucinate.
	for _, option := range options {
		if option.ID == resolution.CategoryID && option.IsUserCategory == resolution.IsUserCategory {
			if resolution.IsUserCategory {
				result.UserCategoryID = &resolvedID
				result.CategoryID = nil
			} else {
				result.CategoryID = &resolvedID
				result.UserCategoryID = nil
			}
			return
		}
	}
}

func (s *receiptService) categoryOptions(ctx context.Context, userID string) ([]domain.CategoryOption, error) {
	systemCategories, err := s.categoryRepository.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	userCategories, err := s.categoryRepository.GetUserCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	options := make([]domain.CategoryOption, 0, len(systemCategories)+len(userCategories))
	for _, c := range systemCategories {
		options = append(options, domain.CategoryOption{ID: c.ID.String(), Name: c.Name})
	}
	for _, c := range userCategories {
		options = append(options, domain.CategoryOption{ID: c.ID.String(), Name: c.Name, IsUserCategory: true})
	}
	return options, nil
}

func (s *receiptService) GetReceiptStatus(ctx context.Context, id string, userID string) (domain.ReceiptStatusResponse, error) {
	result, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.ReceiptStatusResponse{}, err
	}
	return domain.ReceiptStatusResponse{
		OCRID:  result.ID.String(),
		Status: result.ReceiptStatus,
	}, nil
}

func (s *receiptService) GetReceiptDetail(ctx context.Context, id string, userID string) (domain.ReceiptDetailResponse, error) {
	result, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.ReceiptDetailResponse{}, err
	}

	response := domain.ReceiptDetailResponse{
		OCRID:           result.ID.String(),
		ImageURL:        result.ImagePath,
		Status:          result.ReceiptStatus,
		MerchantName:    result.MerchantName,
		TotalAmount:     result.TotalAmount,
		TransactionDate: result.TransactionDate,
		PaymentMethod:   result.PaymentMethod,
		Confidence: domain.ConfidenceScores{
			MerchantName:    result.MerchantConfidence,
			TotalAmount:     result.AmountConfidence,
			TransactionDate: result.DateConfidence,
			PaymentMethod:   result.PaymentConfidence,
		},
		Items:     make([]domain.ReceiptItemResponse, 0, len(result.Items)),
		CreatedAt: result.CreatedAt,
	}

	if result.CategoryID != nil {
		response.Category = &domain.ReceiptCategoryResponse{CategoryID: result.CategoryID.String()}
		if result.Category != nil {
			response.Category.Name = result.Category.Name
		}
	} else if result.UserCategoryID != nil {
		response.Category = &domain.ReceiptCategoryResponse{UserCategoryID: result.UserCategoryID.String()}
		if result.UserCategory != nil {
			response.Category.Name = result.UserCategory.Name
		}
	}

	for _, item := range result.Items {
		response.Items = append(response.Items, domain.ReceiptItemResponse{
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return response, nil
}

func (s *receiptService) AcceptReceipt(ctx context.Context, id string, req domain.AcceptReceiptRequest, userID string) (domain.AcceptReceiptResponse, error) {
	if req.CategoryID != "" && req.UserCategoryID != "" {
		return domain.AcceptReceiptResponse{}, domain.ErrBothCategoriesSet
	}

	result, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.AcceptReceiptResponse{}, err
	}
	if result.ReceiptStatus == entities.ReceiptStatusAccepted {
		return domain.AcceptReceiptResponse{}, domain.ErrReceiptAlreadyAccepted
	}
	if result.ReceiptStatus != entities.ReceiptStatusProcessed {
		return domain.AcceptReceiptResponse{}, domain.ErrInvalidState
	}

	if err := s.applyCorrections(ctx, result, req, userID); err != nil {
		return domain.AcceptReceiptResponse{}, err
	}
	if result.CategoryID == nil && result.UserCategoryID == nil {
		return domain.AcceptReceiptResponse{}, domain.ErrCategoryRequired
	}

	expense, items := s.buildExpense(result, req)
	if err := s.receiptRepository.Accept(ctx, result, expense, items); err != nil {
		return domain.AcceptReceiptResponse{}, err
	}

	return domain.AcceptReceiptResponse{
		ExpenseID: expense.ID.String(),
		OCRID:     result.ID.String(),
	}, nil
}

func (s *receiptService) applyCorrections(ctx context.Context, result *entities.OCRResult, req domain.AcceptReceiptRequest, userID string) error {
	if req.MerchantName != "" {
		merchant := NormalizeMerchant(req.MerchantName)
		result.MerchantName = &merchant
	}
	if req.TotalAmount != "" {
		amount := NormalizeAmount(req.TotalAmount)
		result.TotalAmount = &amount
	}
	if req.TransactionDate != "" {
		date := NormalizeDate(req.TransactionDate)
		result.TransactionDate = &date
	}
	if req.PaymentMethod != "" {
		payment := NormalizePaymentMethod(req.PaymentMethod)
		result.PaymentMethod = &payment
	}

	if req.CategoryID != "" {
		categoryUUID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return domain.ErrParseUUID
		}
		if _, err := s.categoryRepository.GetCategoryByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCategoryNotFound
			}
			return err
		}
		result.CategoryID = &categoryUUID
		result.UserCategoryID = nil
	} else if req.UserCategoryID != "" {
		categoryUUID, err := uuid.Parse(req.UserCategoryID)
		if err != nil {
			return domain.ErrParseUUID
		}
		userCategory, err := s.categoryRepository.GetUserCategoryByID(ctx, req.UserCategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCategoryNotFound
			}
			return err
		}
		if userCategory.UserID.String() != userID {
			return domain.ErrCategoryNotFound
		}
		result.UserCategoryID = &categoryUUID
		result.CategoryID = nil
	}
	return nil
}

// buildExpense copies the (possibly corrected) draft into fresh ledger rows.
// The draft and the expense are independent records after acceptance.
func (s *receiptService) buildExpense(result *entities.OCRResult, req domain.AcceptReceiptRequest) (*entities.ExpenseHistory, []*entities.ExpenseItem) {
	merchantName := UnknownMerchant
	if result.MerchantName != nil {
		merchantName = *result.MerchantName
	}
	totalAmount := decimal.Zero
	if result.TotalAmount != nil {
		totalAmount = *result.TotalAmount
	}
	transactionDate := NormalizeDate("")
	if result.TransactionDate != nil {
		transactionDate = *result.TransactionDate
	}
	paymentMethod := "Unknown"
	if result.PaymentMethod != nil {
		paymentMethod = *result.PaymentMethod
	}

	ocrID := result.ID
	expense := &entities.ExpenseHistory{
		ID:              uuid.New(),
		UserID:          result.UserID,
		OCRResultID:     &ocrID,
		MerchantName:    merchantName,
		TotalAmount:     totalAmount,
		TransactionDate: transactionDate,
		PaymentMethod:   paymentMethod,
		CategoryID:      result.CategoryID,
		UserCategoryID:  result.UserCategoryID,
		Notes:           req.Notes,
	}

	var items []*entities.ExpenseItem
	if len(req.Items) > 0 {
		for _, item := range req.Items {
			quantity := item.Quantity
			if quantity < 1 {
				quantity = 1
			}
			unitPrice := decimal.NewFromFloat(item.UnitPrice)
			totalPrice := decimal.NewFromFloat(item.TotalPrice)
			if totalPrice.Sign() <= 0 {
				totalPrice = unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
			}
			items = append(items, &entities.ExpenseItem{
				ID:         uuid.New(),
				Name:       item.Name,
				Quantity:   quantity,
				UnitPrice:  unitPrice,
				TotalPrice: totalPrice,
			})
		}
	} else {
		for _, item := range result.Items {
			items = append(items, &entities.ExpenseItem{
				ID:         uuid.New(),
				Name:       item.Name,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				TotalPrice: item.TotalPrice,
			})
		}
	}
	return expense, items
}

func (s *receiptService) RejectReceipt(ctx context.Context, id string, userID string) error {
	result, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.receiptRepository.Reject(ctx, result.ID.String())
}

func (s *receiptService) RetryExtraction(ctx context.Context, id string, userID string) (domain.ReceiptStatusResponse, error) {
	result, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return domain.ReceiptStatusResponse{}, err
	}
	if result.ReceiptStatus != entities.ReceiptStatusPending {
		return domain.ReceiptStatusResponse{}, domain.ErrReceiptNotPending
	}

	fileBytes, err := s.s3.GetFile(ctx, result.ImagePath)
	if err != nil {
		return domain.ReceiptStatusResponse{}, err
	}

	s.runExtraction(ctx, result, fileBytes)

	return domain.ReceiptStatusResponse{
		OCRID:  result.ID.String(),
		Status: result.ReceiptStatus,
	}, nil
}

func (s *receiptService) SubmitFeedback(ctx context.Context, id string, req domain.SubmitFeedbackRequest, userID string) error {
	result, err := s.getOwnedReceipt(ctx, id, userID)
	if err != nil {
		return err
	}

	feedback := &entities.OCRFeedback{
		ID:            uuid.New(),
		OCRResultID:   result.ID,
		UserID:        result.UserID,
		FieldName:     req.FieldName,
		OriginalText:  req.OriginalText,
		CorrectedText: req.CorrectedText,
	}
	return s.receiptRepository.CreateFeedback(ctx, feedback)
}

// getOwnedReceipt loads a draft and verifies ownership. A draft owned by
// someone else is reported as not-found.
func (s *receiptService) getOwnedReceipt(ctx context.Context, id string, userID string) (*entities.OCRResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrReceiptNotFound
	}
	result, err := s.receiptRepository.GetOCRResultByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, err
	}
	if result.UserID.String() != userID {
		return nil, domain.ErrReceiptNotFound
	}
	return result, nil
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func mimeTypeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
