package main

import (
	"encoding/gob"
	"log"
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/controllers"
	"github.com/Goniek94/Motoria/routes"
	"github.com/Goniek94/Motoria/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Register types for session serialization
	gob.Register(controllers.RegistrationData{})

	// Load environment variables
	_, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Create sample admin
	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Seed vehicle categories
	controllers.CreateDefaultCategories()

	// Initialize Google OAuth
	config.InitGoogleOAuth()

	// Expired promotions are swept hourly so stale discounts never
	// outlive their campaign by more than one tick.
	stopSweeper := utils.StartPromotionSweeper(time.Hour)
	defer close(stopSweeper)

	// Set up router
	router := routes.SetupRouter()

	port := config.AppConfig.Port
	if port == "" {
		port = utils.DefaultPort
	}

	utils.LogInfo("Server starting on port %s", port)
	// Start server
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
