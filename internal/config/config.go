// Package config provides functionality for managing configuration options
// for the server and the client. Values come from command-line flags, then
// an optional JSON file, then environment variables, each overriding the
// previous source.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Options holds the configuration values for the server.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address" env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// CertDir holds ca.crt, ca.key, server.crt and server.key.
	CertDir string `json:"cert_dir" env:"CERT_DIR"`

	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// Retention is how long superseded passphrase hashes are kept.
	Retention time.Duration `json:"-" env:"PASSPHRASE_RETENTION"`

	// CleanInterval is how often the history cleaner runs.
	CleanInterval time.Duration `json:"-" env:"PASSPHRASE_CLEAN_INTERVAL"`

	// Config is the path to the Config file.
	Config string `json:"-" env:"CONFIG"`
}

// serverFile is the JSON shape of the server config file. Durations are
// written as Go duration strings.
type serverFile struct {
	*Options
	Retention     string `json:"retention"`
	CleanInterval string `json:"clean_interval"`
}

// ParseServer builds Options from args and the environment.
func ParseServer(args []string) (*Options, error) {
	opts := &Options{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&opts.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&opts.CertDir, "certs", "certs", "directory with CA and server certificates")
	fs.StringVar(&opts.LogLevel, "l", "info", "log level")
	fs.DurationVar(&opts.Retention, "retention", 30*24*time.Hour, "how long superseded passphrases are kept")
	fs.DurationVar(&opts.CleanInterval, "clean-interval", time.Hour, "history cleaner interval")
	fs.StringVar(&opts.Config, "config", "config.json", "path to config file")
	fs.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if p := os.Getenv("CONFIG"); p != "" {
		opts.Config = p
	}
	file := serverFile{Options: opts}
	if err := loadFile(opts.Config, &file); err != nil {
		return nil, err
	}
	if err := applyDuration(&opts.Retention, file.Retention); err != nil {
		return nil, fmt.Errorf("retention: %w", err)
	}
	if err := applyDuration(&opts.CleanInterval, file.CleanInterval); err != nil {
		return nil, fmt.Errorf("clean_interval: %w", err)
	}

	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("error while parsing env: %w", err)
	}
	if opts.Retention <= 0 || opts.CleanInterval <= 0 {
		return nil, errors.New("retention and clean interval must be positive")
	}
	return opts, nil
}

// Parse parses the process arguments and environment into server Options.
// It exits on malformed configuration.
func Parse() *Options {
	opts, err := ParseServer(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return opts
}

// loadFile decodes the JSON file at path into dst. A missing file is not
// an error.
func loadFile(path string, dst any) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func applyDuration(dst *time.Duration, s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
