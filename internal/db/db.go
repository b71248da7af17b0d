package db

import (
	"os"
	"strconv"

	"github.com/adriancmurray/notICE/internal/models"
	"github.com/apex/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=notice port=5432 sslmode=disable TimeZone=UTC"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Info("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.Report{},
		&models.PushSubscription{},
		&models.RegionConfig{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("Database migration completed")

	seedRegion()
}

// seedRegion creates the region config row from environment variables on
// first boot. An existing row is left untouched so operators can edit it.
func seedRegion() {
	var count int64
	DB.Model(&models.RegionConfig{}).Where("key = ?", "region").Count(&count)
	if count > 0 {
		log.Debug("Region config already seeded, skipping")
		return
	}

	region := models.RegionConfig{
		Key:  "region",
		Name: envOr("REGION_NAME", "My City"),
		Lat:  envFloatOr("REGION_LAT", 39.7392),
		Long: envFloatOr("REGION_LONG", -104.9903),
		Zoom: envIntOr("REGION_ZOOM", 14),
	}

	if err := DB.Create(&region).Error; err != nil {
		log.Errorf("Failed to create region config: %v", err)
		return
	}
	log.Infof("Created region config: %s", region.Name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
