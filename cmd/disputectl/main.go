package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Layr-Labs/disputectl/internal/commands"
	"github.com/Layr-Labs/disputectl/internal/config"
	"github.com/Layr-Labs/disputectl/internal/telemetry"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup still happens.
func run() int {
	if cfg, err := config.LoadConfig(); err == nil {
		telemetry.Init(cfg)
	}
	defer telemetry.Close()

	// An interrupt cancels in-flight RPC calls and receipt polling.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Disputectl().RunContext(ctx, os.Args); err != nil {
		return 1
	}
	return 0
}
