package main

import (
	"os"

	"github.com/adriancmurray/notICE/internal/db"
	"github.com/adriancmurray/notICE/internal/router"
	"github.com/adriancmurray/notICE/internal/services"
	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading env vars from system")
	}

	log.SetHandler(text.New(os.Stderr))
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(log.DebugLevel)
	}

	// Initialize Database
	db.Init()

	// Start hourly TTL purge worker
	services.GetPurgeService()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	vapidKeys := services.InitVAPIDKeys(dataDir)

	// Alert channels: the set is open, each provider decides for itself
	// whether its configuration is complete.
	dispatcher := services.NewDispatcher(
		services.NewTelegramProvider(),
		services.NewNtfyProvider(),
		services.NewWebPushProvider(db.DB, vapidKeys),
		services.NewEmailProvider(),
	)

	limiter := services.NewRateLimiter(services.NewGormReportStore(db.DB))

	r := gin.Default()
	router.RegisterRoutes(r, router.Deps{
		Dispatcher: dispatcher,
		Limiter:    limiter,
		VAPIDKeys:  vapidKeys,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infof("notICE server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
