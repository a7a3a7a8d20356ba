package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"picfetch/pkg/auth"
	"picfetch/pkg/config"
	"picfetch/pkg/logger"
)

// loadConfig loads the configuration and initializes the global logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}

	return cfg, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM, so a
// keyboard interrupt stops the current loop but still runs deferred
// persistence.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// resolveAccessKey finds the API access key without touching the
// network: secure credential stores first, then the config file. The
// config-file errors distinguish a missing file from an empty key.
func resolveAccessKey(cfg *config.Config) (string, error) {
	if mgr, err := auth.NewManager(); err == nil {
		if creds, err := mgr.RetrieveDefault(); err == nil && creds.AccessKey != "" {
			return creds.AccessKey, nil
		}
	}

	if cfg.Unsplash.AccessKey != "" && cfg.Unsplash.AccessKey != "no_key" {
		return cfg.Unsplash.AccessKey, nil
	}

	return config.AccessKey(configFile)
}
