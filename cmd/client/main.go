// Package main runs the keeperpass settings client: a terminal UI where a
// managed user sets the passphrase that guards their settings.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/atinyakov/keeperpass/internal/client/host"
	"github.com/atinyakov/keeperpass/internal/config"
	"github.com/atinyakov/keeperpass/internal/logger"
	"github.com/atinyakov/keeperpass/internal/overlay"
	"github.com/atinyakov/keeperpass/internal/tui"
)

var (
	version   string
	buildDate string
)

const loginTimeout = 10 * time.Second

func main() {
	opts, err := config.ParseClient(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if opts.ShowVersion {
		fmt.Printf("keeperpass client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	switch opts.Command {
	case config.CommandRegister:
		dir := filepath.Dir(opts.CertFile)
		if err := host.Register(opts.BaseURL, opts.Login, opts.CAFile, dir); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Registered %s, certificate written to %s\n", opts.Login, dir)
	case config.CommandRun:
		if err := run(opts); err != nil {
			log.Fatal(err)
		}
	}
}

func run(opts *config.ClientOptions) error {
	lg := logger.New()
	if err := lg.InitFile(opts.LogLevel, opts.LogFile); err != nil {
		return err
	}
	defer func() { _ = lg.Log.Sync() }()
	zapLogger := lg.Log

	client, err := host.LoadClientCertificate(opts.CertFile, opts.KeyFile, opts.CAFile)
	if err != nil {
		return err
	}

	session := host.NewSession(client, opts.BaseURL)
	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	err = session.Login(ctx)
	cancel()
	if err != nil {
		return err
	}
	zapLogger.Info("logged in",
		zap.String("user", session.User()),
		zap.Stringer("state", session.AuthenticationState()))

	sender := host.NewSender(client, opts.BaseURL, zapLogger)
	defer sender.Wait()

	texts := tui.DefaultStrings
	sched := tui.NewScheduler()
	container := tui.NewContainer(!opts.NoAnimation)
	o := overlay.MustNew(overlay.Config{
		Title:      texts.Title,
		Container:  container,
		Setter:     sender,
		Auth:       session,
		Scheduler:  sched,
		ResetDelay: opts.ResetDelay,
		Logger:     zapLogger,
	}, tui.NewElements(texts))

	app := tui.NewApp(tui.AppConfig{
		Overlay:   o,
		Container: container,
		Scheduler: sched,
		Session:   session,
		Strings:   texts,
		Keys:      tui.DefaultKeyMap,
		User:      session.User(),
		Logger:    zapLogger,
	})

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
