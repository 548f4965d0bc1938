package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aquanorma/credentials"
	"github.com/aquanorma/credentials/config"
)

func main() {
	configPath := flag.String("config", "", "Path to the TOML configuration file (defaults when empty)")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective configuration as TOML and exit")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dumpConfig {
		cfg, err := config.Load(*configPath, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := config.Encode(cfg, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	_, srv, err := credentials.New(context.Background(), *configPath)
	if err != nil {
		logger.Error("failed to initialize credential service", "error", err)
		os.Exit(1)
	}

	srv.Run()
}
