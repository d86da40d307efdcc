package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Client commands.
const (
	CommandRun      = "run"
	CommandRegister = "register"
)

// ClientOptions holds the configuration values for the settings client.
type ClientOptions struct {
	Command string `json:"-"`

	BaseURL  string `json:"url" env:"SERVER_URL"`
	CertFile string `json:"cert" env:"CLIENT_CERT"`
	KeyFile  string `json:"key" env:"CLIENT_KEY"`
	CAFile   string `json:"ca" env:"CA_CERT"`

	// LogFile receives the client log; the terminal is owned by the UI.
	LogFile  string `json:"log_file" env:"LOG_FILE"`
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// ResetDelay is the fallback delay before a closed overlay is cleared.
	ResetDelay time.Duration `json:"-" env:"OVERLAY_RESET_DELAY"`

	// NoAnimation disables the overlay fade.
	NoAnimation bool `json:"no_animation" env:"NO_ANIMATION"`

	// Login is the user to enroll with the register command.
	Login string `json:"-"`

	ShowVersion bool   `json:"-"`
	Config      string `json:"-" env:"CONFIG"`
}

type clientFile struct {
	*ClientOptions
	ResetDelay string `json:"reset_delay"`
}

// ParseClient builds ClientOptions from args and the environment.
func ParseClient(args []string) (*ClientOptions, error) {
	opts := &ClientOptions{}
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&opts.Command, "cmd", CommandRun, "command: register | run")
	fs.StringVar(&opts.BaseURL, "url", "https://localhost:8080", "server base URL")
	fs.StringVar(&opts.CertFile, "cert", "client.crt", "path to client cert")
	fs.StringVar(&opts.KeyFile, "key", "client.key", "path to client key")
	fs.StringVar(&opts.CAFile, "ca", "certs/ca.crt", "path to CA cert")
	fs.StringVar(&opts.LogFile, "log", "keeperpass.log", "log file")
	fs.StringVar(&opts.LogLevel, "l", "info", "log level")
	fs.DurationVar(&opts.ResetDelay, "reset-delay", 250*time.Millisecond, "fallback delay before the dialog is cleared")
	fs.BoolVar(&opts.NoAnimation, "no-animation", false, "disable the dialog fade")
	fs.StringVar(&opts.Login, "login", "", "username for registration")
	fs.BoolVar(&opts.ShowVersion, "version", false, "show build version and date")
	fs.StringVar(&opts.Config, "c", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if p := os.Getenv("CONFIG"); p != "" {
		opts.Config = p
	}
	file := clientFile{ClientOptions: opts}
	if err := loadFile(opts.Config, &file); err != nil {
		return nil, err
	}
	if err := applyDuration(&opts.ResetDelay, file.ResetDelay); err != nil {
		return nil, fmt.Errorf("reset_delay: %w", err)
	}

	if err := env.Parse(opts); err != nil {
		return nil, fmt.Errorf("error while parsing env: %w", err)
	}

	switch opts.Command {
	case CommandRun:
	case CommandRegister:
		if opts.Login == "" {
			return nil, errors.New("please provide -login=username")
		}
	default:
		return nil, fmt.Errorf("unknown command: %s", opts.Command)
	}
	if opts.ResetDelay <= 0 {
		return nil, errors.New("reset delay must be positive")
	}
	return opts, nil
}
