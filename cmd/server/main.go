// Package main provides the entry point for the Botifyx backend. The server
// owns the Jira OAuth authorization-code flow, keeps the session-scoped
// authentication state, and relays chat prompts to the remote completion
// service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"

	"github.com/botifyx/botifyx/internal/api"
	"github.com/botifyx/botifyx/internal/auth"
	"github.com/botifyx/botifyx/internal/chat"
	"github.com/botifyx/botifyx/internal/config"
	"github.com/botifyx/botifyx/internal/jira"
	"github.com/botifyx/botifyx/internal/logging"
	"github.com/botifyx/botifyx/internal/notify"
	"github.com/botifyx/botifyx/internal/session"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
}

func main() {
	var configPath string
	var login bool
	var noBrowser bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "Configure File Path")
	flag.BoolVar(&login, "login", false, "Print the Jira authorization URL and open it in a browser")
	flag.BoolVar(&noBrowser, "no-browser", false, "Don't open a browser automatically for -login")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("Botifyx Backend Version: %s, Commit: %s, BuiltAt: %s\n", Version, Commit, BuildDate)
		return
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Errorf("failed to get working directory: %v", err)
		return
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	if configPath == "" {
		configPath = filepath.Join(wd, "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return
	}

	if warnings, errValidate := config.ValidateConfig(cfg); errValidate != nil {
		log.Errorf("invalid configuration: %v", errValidate)
		return
	} else if len(warnings) > 0 {
		for _, w := range warnings {
			log.Warnf("config warning: %s", w)
		}
	}

	logging.SetLogLevel(cfg.Debug)
	if err = logging.ConfigureLogOutput(cfg.LoggingToFile, cfg.LogsDir); err != nil {
		log.Errorf("failed to configure log output: %v", err)
		return
	}

	log.Infof("Botifyx Backend Version: %s, Commit: %s, BuiltAt: %s", Version, Commit, BuildDate)

	hub := notify.NewHub()
	store := session.NewFileStore(cfg.SessionFile)
	exchanger := jira.NewTokenExchanger(cfg)
	resolver := jira.NewProfileResolver(cfg)
	controller := auth.NewController(cfg, exchanger, resolver, store, hub)

	if login {
		authURL := controller.LoginURL()
		fmt.Printf("Open this URL to authorize with Jira:\n\n%s\n", authURL)
		if !noBrowser {
			if errOpen := browser.OpenURL(authURL); errOpen != nil {
				log.Warnf("failed to open browser: %v", errOpen)
			}
		}
		return
	}

	server := api.NewServer(cfg, controller, chat.NewClient(cfg), hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if errWatch := config.Watch(ctx, configPath, server.ApplyConfig); errWatch != nil && !errors.Is(errWatch, context.Canceled) {
			log.Warnf("config watcher stopped: %v", errWatch)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-errCh:
		if err != nil {
			log.Errorf("server error: %v", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Infof("received signal %s, shutting down", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err = server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("graceful shutdown failed: %v", err)
		}
	}
}
