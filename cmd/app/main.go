package main

import (
	"log"
	"os"

	"github.com/nabil-devId/expensee-api/cmd/config"
	migration "github.com/nabil-devId/expensee-api/cmd/database/migrate"
	"github.com/nabil-devId/expensee-api/internal/utils"
	"github.com/nabil-devId/expensee-api/pkg/logger"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}
	defer logger.Sync()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
