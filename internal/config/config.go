package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Auth configuration
	JWTSecret          string
	TokenExpireMinutes int
	CypherKey          string

	// Brevo email configuration
	BrevoAPIKey    string
	BrevoFromEmail string
	BrevoFromName  string

	// Vendor configuration
	BuyPowerBaseURL string
	BuyPowerToken   string
	BaxiBaseURL     string
	BaxiAPIKey      string

	// Default upstream used for the vend flow: BUYPOWERNG or BAXI
	DefaultProvider string

	ServiceName string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:               getEnv("PORT", "8080"),
		Mode:               getEnv("GIN_MODE", "debug"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		TokenExpireMinutes: getEnvInt("TOKEN_EXPIRE_MINUTES", 30),
		CypherKey:          getEnv("CYPHER_KEY", "dev-cypher-key"),
		BrevoAPIKey:        getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:     getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:      getEnv("BREVO_FROM_NAME", "Power Vend"),
		BuyPowerBaseURL:    getEnv("BUYPOWER_BASE_URL", "https://apis.buypower.ng"),
		BuyPowerToken:      getEnv("BUYPOWER_TOKEN", ""),
		BaxiBaseURL:        getEnv("BAXI_BASE_URL", "https://payments.baxipay.com.ng/api/baxipay"),
		BaxiAPIKey:         getEnv("BAXI_API_KEY", ""),
		DefaultProvider:    getEnv("DEFAULT_ELECTRICITY_PROVIDER", "BUYPOWERNG"),
		ServiceName:        getEnv("SERVICE_NAME", "Power Vend Service"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
