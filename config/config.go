package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	CorsOrigins string

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBDsn      string // overrides the individual DB_* fields when set
	DBLogLevel string

	JWTKey    string
	JWTExpiry time.Duration
	SaltRound int

	MaxLevel           int
	QuizQuestionCount  int
	QuizEligibilityCap int

	RedisURL string
	LockTTL  time.Duration

	StreakSweepCron string

	CatalogURL  string
	CatalogFile string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:        getEnv("PORT", "3000"),
		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "wordquest"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBDsn:      getEnv("DB_DSN", ""),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", time.Hour),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		MaxLevel:           getEnvInt("MAX_LEVEL", 10),
		QuizQuestionCount:  getEnvInt("QUIZ_QUESTION_COUNT", 5),
		QuizEligibilityCap: getEnvInt("QUIZ_ELIGIBILITY_CAP", 10),

		RedisURL: getEnv("REDIS_URL", ""),
		LockTTL:  getEnvDuration("LOCK_TTL", 10*time.Second),

		StreakSweepCron: getEnv("STREAK_SWEEP_CRON", "5 0 * * *"),

		CatalogURL:  getEnv("CATALOG_URL", ""),
		CatalogFile: getEnv("CATALOG_FILE", "catalog.json"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBDriver == "sqlite" {
		log.Println("Warning: Using sqlite driver. Not recommended for multi-instance deployments.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration parses values like "30s" or "1h"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
