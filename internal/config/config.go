package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	AppEnv      string
	StorageFile string
	HTTPTimeout time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  os.Getenv("API_BASE_URL"),
		AppEnv:      os.Getenv("APP_ENV"),
		StorageFile: os.Getenv("STORAGE_FILE"),
		HTTPTimeout: 15 * time.Second,
	}

	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			log.Fatalf("invalid HTTP_TIMEOUT_SECONDS: %q", v)
		}
		cfg.HTTPTimeout = time.Duration(secs) * time.Second
	}

	if cfg.APIBaseURL == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.StorageFile == "" {
		cfg.StorageFile = ".ecocollect.json"
	}

	return cfg
}
