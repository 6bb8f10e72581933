package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	StorageDir    string
	LogMode       string
	// DevMode controls whether internal fault details are echoed to callers.
	DevMode bool
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		StorageDir:    os.Getenv("STORAGE_DIR"),
		LogMode:       os.Getenv("LOG_MODE"),
		DevMode:       os.Getenv("DEV_MODE") == "1" || os.Getenv("DEV_MODE") == "true",
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = "./data/attachments"
	}
	if cfg.LogMode == "" {
		cfg.LogMode = "development"
	}

	return cfg
}
