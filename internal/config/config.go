package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment at start.
// There is no runtime reload; restart the service after changing .env.
type Config struct {
	Port          string
	DSN           string
	JWTSecret     string
	Salt          string
	AdminUsername string
	AdminPassword string
	UploadDir     string
	Redis         RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads .env (if present) and the process environment into a Config.
// JWT_SECRET and DB_DSN are mandatory.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DSN:           os.Getenv("DB_DSN"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Salt:          os.Getenv("SALT"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		UploadDir:     getEnv("UPLOAD_DIR", "./public"),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}

	if cfg.DSN == "" {
		log.Fatal("DB_DSN not set; configure the database connection string")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set; refusing to start with an empty signing key")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
