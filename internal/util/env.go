package util

import (
	"os"

	"github.com/grantgraph/grantgraph/pkg/logger"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file into the process environment when one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file, relying on process environment")
	}
}

func Env(key string) string {
	return os.Getenv(key)
}

func EnvOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// EnvBool returns fallback unless the variable is exactly "true" or "false".
func EnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true":
		return true
	case "false":
		return false
	}
	return fallback
}
