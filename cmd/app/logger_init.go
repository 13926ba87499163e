package main

import (
	"github.com/osse101/RewardArcade_Go/internal/config"
	"github.com/osse101/RewardArcade_Go/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = logger.DefaultVersion

// initLogger initializes the logger from the process configuration
func initLogger(cfg *config.Config) {
	// Source locations only in dev
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	logger.InitLogger(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		logger.DefaultServiceName,
		version,
		cfg.Environment,
		addSource,
	))
}
