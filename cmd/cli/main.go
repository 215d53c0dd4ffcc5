package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/void2610/online-type-game/internal/buildinfo"
	"github.com/void2610/online-type-game/internal/client/cli"
	"github.com/void2610/online-type-game/internal/client/config"
	"github.com/void2610/online-type-game/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	app.Run(ctx)
}
