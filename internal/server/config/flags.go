package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/securevault/internal/flagx"
)

var serverFlags = []string{
	"-a", "-m", "-D", "-d", "-f", "-U", "-o", "-s", "-t", "-A", "-k", "-x",
	"-u", "-p", "-b", "-g", "-e", "-P", "-l", "-L",
}

// parseFlags populates Config fields from short command-line flags.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address, empty disables
//	-D string   database driver: sqlite | pgx
//	-d string   database DSN
//	-f string   storage backend: local | s3
//	-U string   upload root directory (local storage)
//	-o string   table export directory
//	-s string   session token HMAC secret
//	-t int      session validity, minutes
//	-A string   admin userid
//	-k string   password hasher: sha256 | argon2id
//	-x string   document renderer: pdf | text | none
//	-u/-p       S3 user and password
//	-b/-g/-e/-P S3 bucket, region, base endpoint, key prefix
//	-l/-L       log level and format (text | json)
//
// Only these flags are considered; everything else in args is ignored.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for /metrics")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "f", config.StorageBackend, "storage backend")
	fs.StringVar(&config.UploadDir, "U", config.UploadDir, "upload directory")
	fs.StringVar(&config.ExportDir, "o", config.ExportDir, "table export directory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.AdminUserID, "A", config.AdminUserID, "admin userid")
	fs.StringVar(&config.PasswordHasher, "k", config.PasswordHasher, "password hasher")
	fs.StringVar(&config.DocumentRenderer, "x", config.DocumentRenderer, "document renderer")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Prefix, "P", config.S3Prefix, "S3 key prefix")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "L", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t is applied only when given, so sub-minute values from a file or the
	// environment survive.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
		}
	})
}
