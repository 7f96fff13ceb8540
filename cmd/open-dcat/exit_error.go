package main

import "fmt"

// Process exit codes. Commands that report their failure on stdout (the
// datasource connectivity test) exit silently with exitFailure; an
// interrupted run exits with the conventional SIGINT code.
const (
	exitFailure  = 1
	exitCanceled = 130
)

type exitError struct {
	code   int
	err    error
	silent bool
}

// silentExit signals a nonzero exit without printing to stderr, for commands
// that already wrote their verdict to stdout.
func silentExit(code int) *exitError {
	return &exitError{code: code, silent: true}
}

func (e *exitError) Error() string {
	if e == nil {
		return ""
	}
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e *exitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}
