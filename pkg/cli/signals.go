package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sentinel/policyrtd/pkg/telemetry/logging"
)

// SetupSignalHandler returns a context that is cancelled on SIGINT or
// SIGTERM, for callers that hand it to server.Server.Start and expect that
// cancellation to trigger server.Server.Shutdown's graceful drain.
//
// A second signal before the first has been acted on means the graceful
// drain is taking too long or has wedged; SetupSignalHandler logs it and
// exits the process immediately rather than waiting out the shutdown
// timeout a second time.
func SetupSignalHandler(logger *logging.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if logger != nil {
			logger.Info("received shutdown signal, draining", "signal", sig.String())
		}
		cancel()

		sig = <-sigChan
		if logger != nil {
			logger.Warn("received second shutdown signal, exiting immediately", "signal", sig.String())
		}
		os.Exit(1)
	}()

	return ctx
}
