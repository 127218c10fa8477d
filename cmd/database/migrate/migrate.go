package migration

import (
	"fmt"
	"log"

	"github.com/nabil-devId/expensee-api/entities"

	"gorm.io/gorm"
)

var defaultCategories = []entities.Category{
	{Name: "General", Icon: "general", Color: "#4CAF50"},
	{Name: "Groceries", Icon: "shopping-cart", Color: "#4CAF50"},
	{Name: "Dining", Icon: "utensils", Color: "#FF9800"},
	{Name: "Transportation", Icon: "car", Color: "#2196F3"},
	{Name: "Utilities", Icon: "bolt", Color: "#FFC107"},
	{Name: "Housing", Icon: "home", Color: "#795548"},
	{Name: "Entertainment", Icon: "film", Color: "#9C27B0"},
	{Name: "Health", Icon: "heart", Color: "#F44336"},
	{Name: "Shopping", Icon: "shopping-bag", Color: "#3F51B5"},
	{Name: "Travel", Icon: "plane", Color: "#009688"},
	{Name: "Education", Icon: "book", Color: "#607D8B"},
	{Name: "Personal Care", Icon: "user", Color: "#E91E63"},
	{Name: "Miscellaneous", Icon: "ellipsis-h", Color: "#9E9E9E"},
}

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Category{}); err != nil {
		log.Fatalf("Error migrating category database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UserCategory{}); err != nil {
		log.Fatalf("Error migrating user category database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.OCRResult{}); err != nil {
		log.Fatalf("Error migrating ocr result database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.OCRResultItem{}); err != nil {
		log.Fatalf("Error migrating ocr result item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.OCRFeedback{}); err != nil {
		log.Fatalf("Error migrating ocr feedback database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ExpenseHistory{}); err != nil {
		log.Fatalf("Error migrating expense history database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ExpenseItem{}); err != nil {
		log.Fatalf("Error migrating expense item database: %v", err)
		return err
	}

	if err := seedCategories(db); err != nil {
		log.Fatalf("Error seeding categories: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entities.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&defaultCategories).Error
}
