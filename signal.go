package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// exitInterrupted is the conventional exit status after SIGINT.
const exitInterrupted = 130

// shutdownContext derives the run context from parent. The first SIGINT or
// SIGTERM cancels it, which aborts the in-flight catalog request and keeps
// the next folder from starting. A second signal exits at once, without a
// summary.
func shutdownContext(parent context.Context, logger *slog.Logger) context.Context {
	ctx, cancel := context.WithCancel(parent)

	interrupts := make(chan os.Signal, 2)
	signal.Notify(interrupts, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(interrupts)

		sig, ok := nextSignal(ctx, interrupts)
		if !ok {
			return
		}

		logger.Info("interrupt received, stopping before the next folder",
			slog.String("signal", sig.String()),
		)
		cancel()

		if sig, ok = nextSignal(parent, interrupts); !ok {
			return
		}

		logger.Warn("second interrupt, exiting without summary",
			slog.String("signal", sig.String()),
		)
		os.Exit(exitInterrupted)
	}()

	return ctx
}

// nextSignal waits for a signal on ch. It reports false when ctx ends first.
func nextSignal(ctx context.Context, ch <-chan os.Signal) (os.Signal, bool) {
	select {
	case sig := <-ch:
		return sig, true
	case <-ctx.Done():
		return nil, false
	}
}
