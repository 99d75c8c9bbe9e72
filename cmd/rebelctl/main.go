// Command rebelctl inspects and drives the native features of a running
// Rebel browser through its DevTools endpoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rebel-browser/browser-api/browserprocess"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	browserprocess.ForceProcessShutdown()
	if err != nil {
		stop()
		os.Exit(1) //nolint:gocritic
	}
}
