package main

import (
	"log"
	"time"

	"power-vend-api/internal/api"
	"power-vend-api/internal/config"
	"power-vend-api/internal/database"
	"power-vend-api/internal/services"
	"power-vend-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}

	// Initialize logging
	logging.InitLogging(config.AppConfig.Mode)

	// Initialize database and Redis
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.CloseDatabase()

	db := database.GetDB()

	// Wire services
	tokenStore := services.NewRedisTokenStore(database.GetRedis())
	tokenService := services.NewTokenService(
		config.AppConfig.JWTSecret,
		time.Duration(config.AppConfig.TokenExpireMinutes)*time.Minute,
		tokenStore,
	)
	cypher := services.NewCypher(config.AppConfig.CypherKey)
	email := services.NewBrevoEmailService(
		config.AppConfig.BrevoAPIKey,
		config.AppConfig.BrevoFromEmail,
		config.AppConfig.BrevoFromName,
	)

	buyPower := services.NewBuyPowerService(config.AppConfig.BuyPowerBaseURL, config.AppConfig.BuyPowerToken)
	baxi := services.NewBaxiService(config.AppConfig.BaxiBaseURL, config.AppConfig.BaxiAPIKey)

	authController := &api.AuthController{
		Partners: services.NewPartnerService(db),
		Tokens:   tokenService,
		Cypher:   cypher,
		Store:    tokenStore,
		Email:    email,
	}

	vendorController := &api.VendorController{
		Vend:         services.SelectBackend(config.AppConfig.DefaultProvider, buyPower, baxi),
		BuyPower:     buyPower,
		Baxi:         baxi,
		Transactions: services.NewTransactionService(db),
		Users:        services.NewUserService(db),
		Meters:       services.NewMeterService(db),
		PowerUnits:   services.NewPowerUnitService(db),
		Email:        email,
	}

	// Set Gin mode
	gin.SetMode(config.AppConfig.Mode)

	// Create Gin engine
	r := gin.Default()

	// Setup routes
	api.SetupRoutes(r, authController, vendorController)

	// Start server
	port := config.AppConfig.Port
	logging.Infof("Starting %s on port %s", config.AppConfig.ServiceName, port)

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
