package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"browser-expect/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(envService, os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
