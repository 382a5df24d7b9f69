package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AWS      AWSConfig
	Storage  StorageConfig
	OCR      OCRConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	Extract  ExtractConfig
}

type AWSConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

type StorageConfig struct {
	Endpoint string
	Bucket   string
	UseSSL   bool
}

type OCRConfig struct {
	Endpoint string
	APIKey   string
}

type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LoggingConfig struct {
	LogtailToken    string
	LogtailEndpoint string
}

// DispatchMode selects how the batch run executes eligible files.
type DispatchMode string

const (
	DispatchInline DispatchMode = "inline"
	DispatchQueue  DispatchMode = "queue"
)

type ExtractConfig struct {
	FolderID     string
	Workers      int
	PollInterval time.Duration
	PollTimeout  time.Duration
	Dispatch     DispatchMode
}

func Load() (*Config, error) {
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	workers, err := getEnvInt("EXTRACT_WORKERS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid EXTRACT_WORKERS: %w", err)
	}

	pollInterval, err := getEnvDuration("EXTRACT_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid EXTRACT_POLL_INTERVAL: %w", err)
	}

	pollTimeout, err := getEnvDuration("EXTRACT_POLL_TIMEOUT", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid EXTRACT_POLL_TIMEOUT: %w", err)
	}

	cfg := &Config{
		AWS: AWSConfig{
			Region:    getEnv("AWS_REGION", ""),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Storage: StorageConfig{
			Endpoint: getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
			Bucket:   getEnv("S3_BUCKET_NAME", ""),
			UseSSL:   getEnv("S3_USE_SSL", "true") != "false",
		},
		OCR: OCRConfig{
			Endpoint: getEnv("OCR_ENDPOINT", ""),
			APIKey:   getEnv("OCR_API_KEY", ""),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: maxConns,
			MinConns: minConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Logging: LoggingConfig{
			LogtailToken:    getEnv("LOGTAIL_SOURCE_TOKEN", ""),
			LogtailEndpoint: getEnv("LOGTAIL_ENDPOINT", "https://in.logs.betterstack.com"),
		},
		Extract: ExtractConfig{
			FolderID:     getEnv("FOLDER_ID", ""),
			Workers:      workers,
			PollInterval: pollInterval,
			PollTimeout:  pollTimeout,
			Dispatch:     DispatchMode(getEnv("EXTRACT_DISPATCH", string(DispatchInline))),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.AWS.Region == "" {
		missing = append(missing, "AWS_REGION")
	}
	if c.AWS.AccessKey == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if c.AWS.SecretKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if c.Storage.Bucket == "" {
		missing = append(missing, "S3_BUCKET_NAME")
	}
	if c.OCR.Endpoint == "" {
		missing = append(missing, "OCR_ENDPOINT")
	}
	if c.Extract.FolderID == "" {
		missing = append(missing, "FOLDER_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.Extract.Dispatch != DispatchInline && c.Extract.Dispatch != DispatchQueue {
		return fmt.Errorf("invalid EXTRACT_DISPATCH: %q", c.Extract.Dispatch)
	}
	if c.Extract.Workers <= 0 {
		return fmt.Errorf("EXTRACT_WORKERS must be positive, got %d", c.Extract.Workers)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
