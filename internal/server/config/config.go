// Package config handles configuration for the server and the maintenance
// tool: defaults, an optional JSON or YAML file, environment variables (with
// .env support) and command-line flags, applied in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/securevault/internal/cryptox"
	"github.com/dmitrijs2005/securevault/internal/dbx"
)

// Storage backends.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Document renderers for audit exports. RendererNone always substitutes CSV.
const (
	RendererPDF  = "pdf"
	RendererText = "text"
	RendererNone = "none"
)

// Config holds runtime settings for the SecureVault server.
//
// Fields:
//   - EndpointAddrGRPC / MetricsAddr: bind addresses; empty MetricsAddr disables /metrics.
//   - DatabaseDriver / DatabaseDSN: "sqlite" (modernc) or "pgx" (Postgres).
//   - StorageBackend: "local" stores files under UploadDir, "s3" in S3Bucket under S3Prefix.
//   - ExportDir: target directory for table CSV dumps.
//   - SecretKey / SessionValidityDuration: HS256 key and lifetime of session tokens.
//   - AdminUserID: the reserved userid that is granted the admin role.
//   - PasswordHasher: "sha256" (compatible with existing stores) or "argon2id".
//   - DocumentRenderer: "pdf", "text" or "none".
type Config struct {
	EndpointAddrGRPC        string
	MetricsAddr             string
	DatabaseDriver          string
	DatabaseDSN             string
	StorageBackend          string
	UploadDir               string
	ExportDir               string
	SecretKey               string
	SessionValidityDuration time.Duration
	AdminUserID             string
	PasswordHasher          string
	DocumentRenderer        string
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
	S3Prefix                string
	LogLevel                string
	LogFormat               string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.DatabaseDriver = string(dbx.DialectSQLite)
	c.DatabaseDSN = "securevault.db"
	c.StorageBackend = StorageLocal
	c.UploadDir = "uploads"
	c.ExportDir = "db_exports"
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 12 * time.Hour
	c.AdminUserID = "admin"
	c.PasswordHasher = cryptox.HasherSHA256
	c.DocumentRenderer = RendererPDF
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "vault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3Prefix = "uploads"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config from defaults, the config file named by -c,
// the environment (and ./.env) and finally the process flags. It panics on
// unreadable files and malformed flags.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Args[1:])
}

// LoadConfigFrom is LoadConfig over an explicit argument list.
func LoadConfigFrom(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg, ".env")
	parseFlags(cfg, args)
	return cfg
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if _, err := dbx.ParseDialect(c.DatabaseDriver); err != nil {
		return err
	}
	if _, err := cryptox.NewPasswordHasher(c.PasswordHasher); err != nil {
		return err
	}

	switch strings.ToLower(c.StorageBackend) {
	case StorageLocal:
		if c.UploadDir == "" {
			return fmt.Errorf("upload dir must be set for local storage")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 bucket must be set for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	switch strings.ToLower(c.DocumentRenderer) {
	case RendererPDF, RendererText, RendererNone:
	default:
		return fmt.Errorf("unknown document renderer %q", c.DocumentRenderer)
	}

	if c.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	if c.SessionValidityDuration <= 0 {
		return fmt.Errorf("session validity must be positive")
	}
	if strings.TrimSpace(c.AdminUserID) == "" {
		return fmt.Errorf("admin userid must not be empty")
	}
	return nil
}
