package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"desktop-cleaner/internal/log"
)

// signalExit reports that the process stopped because of a signal. The exit
// status follows the shell convention of 128 plus the signal number.
type signalExit struct {
	sig os.Signal
}

func (e *signalExit) Error() string {
	return "stopped by " + e.sig.String()
}

func (e *signalExit) code() int {
	if s, ok := e.sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

// shutdown remembers the signal that cancelled a context.
type shutdown struct {
	mu  sync.Mutex
	sig os.Signal
}

// notifyShutdown returns a context cancelled by the first of signals. stop
// releases the signal handler.
func notifyShutdown(parent context.Context, signals []os.Signal) (ctx context.Context, s *shutdown, stop func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	s = &shutdown{}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	go func() {
		select {
		case sig := <-ch:
			s.mu.Lock()
			s.sig = sig
			s.mu.Unlock()
			log.Info("Received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, s, func() {
		signal.Stop(ch)
		cancel()
	}
}

// err returns a *signalExit once a signal has been received.
func (s *shutdown) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sig == nil {
		return nil
	}
	return &signalExit{sig: s.sig}
}
