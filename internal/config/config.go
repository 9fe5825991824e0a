package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Snapshot backends
const (
	SnapshotBackendFile = "file"
	SnapshotBackendS3   = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Remote document store. Empty DatabaseURL disables the remote store
	// entirely; every call then resolves to the local snapshot.
	DatabaseURL string

	// Auth0. Empty domain disables remote sessions; every request is then
	// treated as the unauthenticated demo session.
	Auth0Domain   string
	Auth0Audience string

	// Local snapshot store
	SnapshotBackend string
	SnapshotPath    string
	S3              S3Config
}

// S3Config holds AWS S3 configuration for the snapshot blob backend
type S3Config struct {
	Region          string
	Bucket          string
	Key             string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:             getEnv("ENV", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Auth0Domain:     getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:   getEnv("AUTH0_AUDIENCE", ""),
		SnapshotBackend: getEnv("SNAPSHOT_BACKEND", SnapshotBackendFile),
		SnapshotPath:    getEnv("SNAPSHOT_PATH", "data/snapshot.json"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "finbook-snapshots"),
			Key:             getEnv("S3_SNAPSHOT_KEY", "snapshot.json"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	// DATABASE_URL and Auth0 are deliberately optional: running against the
	// local snapshot alone is a supported deployment.
	if c.SnapshotBackend != SnapshotBackendFile && c.SnapshotBackend != SnapshotBackendS3 {
		return fmt.Errorf("SNAPSHOT_BACKEND must be %q or %q", SnapshotBackendFile, SnapshotBackendS3)
	}
	if c.Auth0Domain != "" && c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required when AUTH0_DOMAIN is set")
	}
	return nil
}

// RemoteStoreEnabled reports whether a remote document store is configured.
func (c *Config) RemoteStoreEnabled() bool {
	return c.DatabaseURL != ""
}

// AuthEnabled reports whether Auth0 session validation is configured.
func (c *Config) AuthEnabled() bool {
	return c.Auth0Domain != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
