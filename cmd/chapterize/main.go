package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Exit statuses, distinguishable by automation.
const (
	exitOK           = 0
	exitFatal        = 1
	exitPartial      = 2
	exitNoBoundaries = 3
	exitAllFailed    = 4
)

// exitError carries an exit status other than the generic failure code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(exitFatal)
	}
}
