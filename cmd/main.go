package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foundrr/foundrr-backend/internal/app"
)

// Generations stream for minutes; give them this long to finish on shutdown.
const shutdownGrace = 3 * time.Minute

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("Start failed", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- application.Run() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			application.Log.Error("Server failed", "error", err)
			application.Close()
			os.Exit(1)
		}
	case s := <-sig:
		application.Log.Info("Shutting down", "signal", s.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := application.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			application.Log.Warn("Shutdown error", "error", err)
		}
	}
}
