package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lance13c/vimnav/cmd"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetVersion(version)
	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
