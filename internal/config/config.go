// Package config resolves hwdiag settings from a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAWSRegion   = "AWS_REGION"
	EnvS3LogBucket = "S3_LOG_BUCKET"
	EnvDBPath      = "HWDIAG_DB"
	EnvRulesDir    = "HWDIAG_RULES"
)

// DefaultAWSRegion is used when AWS_REGION is unset.
const DefaultAWSRegion = "us-east-1"

// Config holds resolved settings. Empty S3LogBucket or DBPath disables the
// corresponding log sink; empty RulesDir selects the built-in rule table.
type Config struct {
	AWSRegion   string
	S3LogBucket string
	DBPath      string
	RulesDir    string
}

// S3Enabled reports whether records should be uploaded to S3.
func (c Config) S3Enabled() bool { return c.S3LogBucket != "" }

// StoreEnabled reports whether records should be written to SQLite.
func (c Config) StoreEnabled() bool { return c.DBPath != "" }

// Load reads envFiles into the process environment (existing variables win)
// and resolves a Config. With no files it tries ".env". Missing files are
// ignored; unreadable or malformed ones are errors.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromEnv(os.LookupEnv), nil
}

// FromEnv resolves a Config from lookup without touching files.
func FromEnv(lookup func(string) (string, bool)) Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	cfg := Config{
		AWSRegion:   get(EnvAWSRegion),
		S3LogBucket: get(EnvS3LogBucket),
		DBPath:      get(EnvDBPath),
		RulesDir:    get(EnvRulesDir),
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = DefaultAWSRegion
	}
	return cfg
}
