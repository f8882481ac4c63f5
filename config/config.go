package config

import (
	"fmt"
	"os"

	"github.com/Goniek94/Motoria/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// AppConfig holds the loaded configuration for handlers that need it
var AppConfig *Config

// Config holds all configuration for the application
type Config struct {
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	JWTSecret         string
	Port              string
	Env               string
	RazorpayKeyID     string
	RazorpayKeySecret string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            os.Getenv("DB_PORT"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		Port:              os.Getenv("PORT"),
		Env:               os.Getenv("ENV"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
	}

	AppConfig = config
	return config, nil
}

// InitDB initializes the database connection
func InitDB() {
	config, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	DB = db

	// Auto-migrate the schema
	err = DB.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Category{},
		&models.Listing{},
		&models.ListingImage{},
		&models.Promotion{},
		&models.Favorite{},
		&models.Message{},
		&models.Transaction{},
		&models.UserOTP{},
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to migrate database: %v", err))
	}

	// Update GoogleID column to be nullable
	err = DB.Exec(`
		ALTER TABLE users
		ALTER COLUMN google_id DROP NOT NULL,
		ALTER COLUMN google_id SET DEFAULT NULL
	`).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to update google_id column: %v", err))
	}

	ensureUniqueFavorites()
	backfillInvoiceNumbers()
}
