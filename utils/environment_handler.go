package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

const (
	ENV                       = "ENV"
	PORT                      = "PORT"
	MONGODB_URI               = "MONGODB_URI"
	MONGODB_DATABASE          = "MONGODB_DATABASE"
	REDIS_URI                 = "REDIS_URI"
	MYSQL_URI                 = "MYSQL_URI"
	AUTH_API_URL              = "AUTH_API_URL"
	LOG_LEVEL                 = "LOG_LEVEL"
	REPORTS_PAGE_SIZE         = "REPORTS_PAGE_SIZE"
	REPORTS_MAX_PAGES         = "REPORTS_MAX_PAGES"
	FILTERS_CACHE_TTL_SECONDS = "FILTERS_CACHE_TTL_SECONDS"
	BULK_APPROVE_CONCURRENCY  = "BULK_APPROVE_CONCURRENCY"

	ENV_DEVELOPMENT = "development"
	ENV_HOMOLOG     = "homolog"
	ENV_RELEASE     = "production"
)

var requiredKeys = []string{ENV, PORT, MONGODB_URI}

var allowedKeys = []string{
	ENV, PORT, MONGODB_URI, MONGODB_DATABASE, REDIS_URI, MYSQL_URI, AUTH_API_URL, LOG_LEVEL,
	REPORTS_PAGE_SIZE, REPORTS_MAX_PAGES, FILTERS_CACHE_TTL_SECONDS, BULK_APPROVE_CONCURRENCY,
}

var intKeys = []string{REPORTS_PAGE_SIZE, REPORTS_MAX_PAGES, FILTERS_CACHE_TTL_SECONDS, BULK_APPROVE_CONCURRENCY}

var allowedEnvValues = []string{ENV_DEVELOPMENT, ENV_HOMOLOG, ENV_RELEASE}

// LoadEnvVariables reads .env from the working directory when it exists and
// checks the resulting environment. Values already present in the process
// environment win over the file.
func LoadEnvVariables() error {
	workDir, err := os.Getwd()
	if err != nil {
		return eris.Wrapf(ErrConfiguration, "get working directory: %v", err)
	}
	return LoadEnvFile(filepath.Join(workDir, ".env"))
}

func LoadEnvFile(filePath string) error {
	values, err := godotenv.Read(filePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(ErrConfiguration, "read %s: %v", filePath, err)
	}

	for key, value := range values {
		if !slices.Contains(allowedKeys, key) {
			return eris.Wrapf(ErrConfiguration, "key '%s' is not allowed. Allowed keys: %s",
				key, strings.Join(allowedKeys, ", "))
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return eris.Wrapf(ErrConfiguration, "set %s: %v", key, err)
		}
	}

	return ValidateEnv()
}

func ValidateEnv() error {
	var missingKeys []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missingKeys = append(missingKeys, key)
		}
	}
	if len(missingKeys) > 0 {
		return eris.Wrapf(ErrConfiguration, "missing required environment variables: %s",
			strings.Join(missingKeys, ", "))
	}

	if env := os.Getenv(ENV); !slices.Contains(allowedEnvValues, env) {
		return eris.Wrapf(ErrConfiguration, "invalid value for ENV: %s. Allowed values: %s",
			env, strings.Join(allowedEnvValues, ", "))
	}

	for _, key := range intKeys {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			return eris.Wrapf(ErrConfiguration, "%s must be a non-negative integer, got %q", key, v)
		}
	}

	return nil
}

// GetEnvInt returns the integer value of key, or def when unset or invalid.
func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
