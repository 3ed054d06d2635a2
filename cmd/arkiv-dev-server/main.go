package main

import (
	"fmt"
	"os"

	"github.com/arkiv-dev/arkiv/internal/config"
	"github.com/arkiv-dev/arkiv/internal/devserver"
	"github.com/arkiv-dev/arkiv/internal/logger"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	zlog := logger.GetLogger()

	srv, err := devserver.New(cfg, zlog, version)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if err := srv.Start(); err != nil {
		zlog.Fatal().Err(err).Msg("Server exited with error")
	}
}
