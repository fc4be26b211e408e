package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/securevault/internal/flagx"
	"github.com/dmitrijs2005/securevault/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "12h" and integer nanoseconds are accepted. Only
// keys present in the file override earlier values.
type FileConfig struct {
	EndpointAddrGRPC        string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	MetricsAddr             string         `json:"metrics_addr" yaml:"metrics_addr"`
	DatabaseDriver          string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN             string         `json:"database_dsn" yaml:"database_dsn"`
	StorageBackend          string         `json:"storage_backend" yaml:"storage_backend"`
	UploadDir               string         `json:"upload_dir" yaml:"upload_dir"`
	ExportDir               string         `json:"export_dir" yaml:"export_dir"`
	SecretKey               string         `json:"secret_key" yaml:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration" yaml:"session_validity_duration"`
	AdminUserID             string         `json:"admin_userid" yaml:"admin_userid"`
	PasswordHasher          string         `json:"password_hasher" yaml:"password_hasher"`
	DocumentRenderer        string         `json:"document_renderer" yaml:"document_renderer"`
	S3RootUser              string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3Prefix                string         `json:"s3_prefix" yaml:"s3_prefix"`
	LogLevel                string         `json:"log_level" yaml:"log_level"`
	LogFormat               string         `json:"log_format" yaml:"log_format"`
}

// parseFile overlays the file named by -c/-config onto config. Files ending
// in .yaml or .yml are decoded as YAML, everything else as JSON. A missing
// flag loads nothing; an unreadable or malformed file panics.
func parseFile(config *Config, args []string) {
	path := flagx.ConfigFileFlagFrom(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *FileConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.ExportDir, c.ExportDir)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration.Duration > 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	setString(&config.AdminUserID, c.AdminUserID)
	setString(&config.PasswordHasher, c.PasswordHasher)
	setString(&config.DocumentRenderer, c.DocumentRenderer)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3Prefix, c.S3Prefix)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
