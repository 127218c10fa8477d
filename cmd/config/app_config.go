package config

import (
	"os"
	"time"

	"github.com/nabil-devId/expensee-api/internal/api/handlers"
	"github.com/nabil-devId/expensee-api/internal/api/routes"
	"github.com/nabil-devId/expensee-api/internal/middleware"
	"github.com/nabil-devId/expensee-api/internal/utils"
	"github.com/nabil-devId/expensee-api/internal/utils/storage"
	"github.com/nabil-devId/expensee-api/pkg/category"
	"github.com/nabil-devId/expensee-api/pkg/expense"
	"github.com/nabil-devId/expensee-api/pkg/gemini"
	"github.com/nabil-devId/expensee-api/pkg/jwt"
	applogger "github.com/nabil-devId/expensee-api/pkg/logger"
	"github.com/nabil-devId/expensee-api/pkg/receipt"
	"github.com/nabil-devId/expensee-api/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	if err := applogger.Init(utils.GetConfig("LOG_LEVEL")); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	extractor := gemini.NewClient()

	// Repository
	userRepository := user.NewUserRepository(db)
	categoryRepository := category.NewCategoryRepository(db)
	receiptRepository := receipt.NewReceiptRepository(db)
	expenseRepository := expense.NewExpenseRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	categoryService := category.NewCategoryService(categoryRepository)
	receiptService := receipt.NewReceiptService(receiptRepository, categoryRepository, s3, extractor)
	expenseService := expense.NewExpenseService(expenseRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	categoryHandler := handlers.NewCategoryHandler(categoryService, validator)
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)
	expenseHandler := handlers.NewExpenseHandler(expenseService)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		ReceiptHandler:  receiptHandler,
		CategoryHandler: categoryHandler,
		ExpenseHandler:  expenseHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
