package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"skillshare/internal/cli"
	"skillshare/internal/config"
	"skillshare/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return cli.ExitError
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Printf("failed to build logger: %v", err)
		return cli.ExitError
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.New(cfg, zl, os.Stdin, os.Stdout, os.Stderr)
	defer app.Close()

	return app.Run(ctx, os.Args[1:])
}
