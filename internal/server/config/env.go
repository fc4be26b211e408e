package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "SECUREVAULT_"

// parseEnv loads envFile (if it exists) into the process environment without
// overriding variables that are already set, then overlays SECUREVAULT_*
// variables onto config.
func parseEnv(config *Config, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	strs := map[string]*string{
		"GRPC_ADDR":         &config.EndpointAddrGRPC,
		"METRICS_ADDR":      &config.MetricsAddr,
		"DB_DRIVER":         &config.DatabaseDriver,
		"DB_DSN":            &config.DatabaseDSN,
		"STORAGE":           &config.StorageBackend,
		"UPLOAD_DIR":        &config.UploadDir,
		"EXPORT_DIR":        &config.ExportDir,
		"SECRET_KEY":        &config.SecretKey,
		"ADMIN_USERID":      &config.AdminUserID,
		"PASSWORD_HASHER":   &config.PasswordHasher,
		"DOCUMENT_RENDERER": &config.DocumentRenderer,
		"S3_USER":           &config.S3RootUser,
		"S3_PASSWORD":       &config.S3RootPassword,
		"S3_BUCKET":         &config.S3Bucket,
		"S3_REGION":         &config.S3Region,
		"S3_ENDPOINT":       &config.S3BaseEndpoint,
		"S3_PREFIX":         &config.S3Prefix,
		"LOG_LEVEL":         &config.LogLevel,
		"LOG_FORMAT":        &config.LogFormat,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.SessionValidityDuration = d
	}
}
