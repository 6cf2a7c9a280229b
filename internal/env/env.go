package env

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// LoadEnv load env variables from .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}
}

// GetEnv return a value of an env variable
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetList return a comma separated env variable as a list
func GetList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// ReadSecret returns the env variable or, when unset, the first line of a file
func ReadSecret(key, fileKey, defaultFile string) (string, error) {
	if value := GetEnv(key, ""); value != "" {
		return value, nil
	}
	data, err := os.ReadFile(GetEnv(fileKey, defaultFile))
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}
