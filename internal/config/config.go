package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Storage StorageConfig
	Editor  EditorConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	StateFile string
}

type EditorConfig struct {
	CodeStyle string
}

func Load() (*Config, error) {
	godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("NOTEAPP_HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTEAPP_HTTP_TIMEOUT: %w", err)
	}

	stateFile := getEnv("NOTEAPP_STATE_FILE", "")
	if stateFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate home directory: %w", err)
		}
		stateFile = filepath.Join(home, ".noteapp", "session.json")
	}

	return &Config{
		API: APIConfig{
			BaseURL: getEnv("NOTEAPP_API_URL", "http://localhost:8000"),
			Timeout: timeout,
		},
		Storage: StorageConfig{
			StateFile: stateFile,
		},
		Editor: EditorConfig{
			CodeStyle: getEnv("NOTEAPP_CODE_STYLE", "github"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
