package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/NetPo4ki/go-fanbench/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Cooperative(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
