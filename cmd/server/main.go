// Package main starts the keeperpass HTTPS server: it stores the passphrases
// that managed users set from the settings client.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/keeperpass/internal/certgen"
	"github.com/atinyakov/keeperpass/internal/config"
	"github.com/atinyakov/keeperpass/internal/db"
	"github.com/atinyakov/keeperpass/internal/logger"
	"github.com/atinyakov/keeperpass/internal/repository"
	"github.com/atinyakov/keeperpass/internal/server/handler/http"
	"github.com/atinyakov/keeperpass/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	db.StartHistoryCleaner(ctx, postgresDB, options.CleanInterval, options.Retention, zapLogger)

	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	passphraseRepo := repository.NewPostgresPassphraseRepository(postgresDB)

	passphraseService := service.NewPassphraseService(passphraseRepo)
	authService := service.NewAuthService(authRepo, passphraseService)

	issuer, err := certgen.LoadIssuer(
		filepath.Join(options.CertDir, "ca.crt"),
		filepath.Join(options.CertDir, "ca.key"),
	)
	if err != nil {
		zapLogger.Fatal("failed to load CA", zap.Error(err))
	}

	authHandler := &http.AuthHandler{AuthService: authService, Issuer: issuer}
	passphraseHandler := &http.PassphraseHandler{PassphraseService: passphraseService, Logger: zapLogger}
	router := http.NewRouter(authHandler, passphraseHandler, zapLogger)

	cert, err := tls.LoadX509KeyPair(
		filepath.Join(options.CertDir, "server.crt"),
		filepath.Join(options.CertDir, "server.key"),
	)
	if err != nil {
		zapLogger.Fatal("failed to load server TLS cert/key", zap.Error(err))
	}

	caCertPool := x509.NewCertPool()
	caCertPool.AddCert(issuer.Certificate())

	// Registration has no certificate yet, so client certs are verified
	// only when presented; CertAuth rejects the rest.
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.VerifyClientCertIfGiven,
		ClientCAs:    caCertPool,
		MinVersion:   tls.VersionTLS12,
	}

	server := &nethttp.Server{
		Addr:      options.Port,
		Handler:   router,
		TLSConfig: tlsConfig,
	}

	zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
	if err := server.ListenAndServeTLS("", ""); err != nil {
		zapLogger.Fatal("failed to start HTTPS server", zap.Error(err))
	}
}
