package cli

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestSetupSignalHandler(t *testing.T) {
	ctx := SetupSignalHandler(nil)

	select {
	case <-ctx.Done():
		t.Error("context should not be cancelled initially")
	default:
	}

	if ctx.Done() == nil {
		t.Error("context should have a Done channel")
	}
}

func TestSetupSignalHandlerCancelledOnSignal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping signal test in short mode")
	}

	ctx := SetupSignalHandler(nil)

	go func() {
		time.Sleep(20 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		_ = p.Signal(syscall.SIGTERM)
	}()

	select {
	case <-ctx.Done():
		// expected: server.Server.Start would now begin its graceful Shutdown.
	case <-time.After(500 * time.Millisecond):
		t.Skip("signal not delivered within timeout (environment dependent)")
	}
}

func TestSetupSignalHandlerUsableAsServerShutdownTrigger(t *testing.T) {
	ctx := SetupSignalHandler(nil)

	serverDone := make(chan bool)
	go func() {
		<-ctx.Done()
		serverDone <- true
	}()

	select {
	case <-serverDone:
		t.Error("server should not be done before a signal arrives")
	case <-time.After(10 * time.Millisecond):
		// expected
	}
}
