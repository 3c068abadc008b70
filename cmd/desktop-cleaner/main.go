package main

import (
	"fmt"
	"os"

	"desktop-cleaner/internal/errors"
	"desktop-cleaner/internal/log"
)

var (
	version = "dev"
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	err := newRootCmd(defaultDeps()).Execute()
	_ = log.Close()

	if err != nil && !isSignalExit(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps the error returned by a command to the process status:
// 128+N after signal N, 2 for rejected flag values, 1 for anything else.
func exitCode(err error) int {
	var sigErr *signalExit
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &sigErr):
		return sigErr.code()
	case errors.IsInvalidConfig(err):
		return exitUsage
	default:
		return exitFailure
	}
}

func isSignalExit(err error) bool {
	var sigErr *signalExit
	return errors.As(err, &sigErr)
}
