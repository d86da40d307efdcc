package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseServer_Defaults(t *testing.T) {
	opts, err := ParseServer([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Port)
	assert.Equal(t, "certs", opts.CertDir)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, 30*24*time.Hour, opts.Retention)
	assert.Equal(t, time.Hour, opts.CleanInterval)
}

func TestParseServer_Precedence(t *testing.T) {
	path := writeConfig(t, `{
		"address": "0.0.0.0:9000",
		"database_dsn": "postgres://file",
		"log_level": "debug",
		"retention": "48h"
	}`)
	t.Setenv("DATABASE_DSN", "postgres://env")

	opts, err := ParseServer([]string{"-a", "127.0.0.1:1", "-d", "postgres://flag", "-c", path})
	require.NoError(t, err)

	// file overrides flags, env overrides file
	assert.Equal(t, "0.0.0.0:9000", opts.Port)
	assert.Equal(t, "postgres://env", opts.DatabaseDSN)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, 48*time.Hour, opts.Retention)
}

func TestParseServer_Env(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "localhost:9443")
	t.Setenv("CERT_DIR", "/etc/keeper")
	t.Setenv("PASSPHRASE_RETENTION", "2h")
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	opts, err := ParseServer(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9443", opts.Port)
	assert.Equal(t, "/etc/keeper", opts.CertDir)
	assert.Equal(t, 2*time.Hour, opts.Retention)
}

func TestParseServer_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		file string
	}{
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "broken file", file: `{"address":`},
		{name: "bad file duration", file: `{"retention":"soon"}`},
		{name: "bad env duration", env: map[string]string{"PASSPHRASE_RETENTION": "soon"}},
		{name: "zero retention", args: []string{"-retention", "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.file != "" {
				args = append(args, "-c", writeConfig(t, tt.file))
			} else {
				args = append(args, "-c", filepath.Join(t.TempDir(), "missing.json"))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseServer(args)
			assert.Error(t, err)
		})
	}
}

func TestParseClient_Defaults(t *testing.T) {
	opts, err := ParseClient(nil)
	require.NoError(t, err)

	assert.Equal(t, CommandRun, opts.Command)
	assert.Equal(t, "https://localhost:8080", opts.BaseURL)
	assert.Equal(t, "keeperpass.log", opts.LogFile)
	assert.Equal(t, 250*time.Millisecond, opts.ResetDelay)
	assert.False(t, opts.NoAnimation)
}

func TestParseClient_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `{"url":"https://keeper:8443","reset_delay":"1s","no_animation":true}`)
	t.Setenv("OVERLAY_RESET_DELAY", "500ms")

	opts, err := ParseClient([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "https://keeper:8443", opts.BaseURL)
	assert.True(t, opts.NoAnimation)
	assert.Equal(t, 500*time.Millisecond, opts.ResetDelay)
}

func TestParseClient_Commands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "register", args: []string{"-cmd", "register", "-login", "alice"}},
		{name: "register without login", args: []string{"-cmd", "register"}, wantErr: "please provide -login=username"},
		{name: "unknown", args: []string{"-cmd", "shell"}, wantErr: "unknown command: shell"},
		{name: "non-positive delay", args: []string{"-reset-delay", "0s"}, wantErr: "reset delay must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClient(tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
