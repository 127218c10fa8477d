package routes

import (
	"github.com/nabil-devId/expensee-api/internal/api/handlers"
	"github.com/nabil-devId/expensee-api/internal/middleware"
	"github.com/nabil-devId/expensee-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	ReceiptHandler  handlers.ReceiptHandler
	CategoryHandler handlers.CategoryHandler
	ExpenseHandler  handlers.ExpenseHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Receipts()
	c.Categories()
	c.Expenses()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
	}
}

func (c *Config) Receipts() {
	receipts := c.App.Group("/api/v1/receipts", c.Middleware.AuthMiddleware(c.JWTService))

	receipts.Post("/upload", c.ReceiptHandler.UploadReceipt)
	receipts.Get("/:id/status", c.ReceiptHandler.GetReceiptStatus)
	receipts.Get("/:id", c.ReceiptHandler.GetReceiptDetail)

	// Draft lifecycle
	receipts.Post("/:id/accept", c.ReceiptHandler.AcceptReceipt)
	receipts.Post("/:id/reject", c.ReceiptHandler.RejectReceipt)
	receipts.Post("/:id/retry", c.ReceiptHandler.RetryExtraction)
	receipts.Post("/:id/feedback", c.ReceiptHandler.SubmitFeedback)
}

func (c *Config) Categories() {
	categories := c.App.Group("/api/v1/categories", c.Middleware.AuthMiddleware(c.JWTService))

	categories.Get("", c.CategoryHandler.GetCategories)
	categories.Post("", c.CategoryHandler.CreateUserCategory)
}

func (c *Config) Expenses() {
	expenses := c.App.Group("/api/v1/expenses", c.Middleware.AuthMiddleware(c.JWTService))

	expenses.Get("", c.ExpenseHandler.GetExpenses)
	expenses.Get("/:id", c.ExpenseHandler.GetExpenseDetail)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
