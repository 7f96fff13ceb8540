package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunMain_Success(t *testing.T) {
	var out bytes.Buffer
	if code := runMain(func() error { return nil }, &out); code != 0 {
		t.Fatalf("runMain() = %d, want 0", code)
	}
	if out.Len() != 0 {
		t.Fatalf("stderr = %q, want empty", out.String())
	}
}

func TestRunMain_PlainError(t *testing.T) {
	var out bytes.Buffer
	if code := runMain(func() error { return errors.New("boom") }, &out); code != 1 {
		t.Fatalf("runMain() = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "boom") {
		t.Fatalf("stderr = %q, want error text", out.String())
	}
}

func TestRunMain_ExitErrorCodeAndSilence(t *testing.T) {
	var out bytes.Buffer
	err := &exitError{code: 3, err: errors.New("gone"), silent: true}
	if code := runMain(func() error { return err }, &out); code != 3 {
		t.Fatalf("runMain() = %d, want 3", code)
	}
	if out.Len() != 0 {
		t.Fatalf("stderr = %q, want empty for silent exit", out.String())
	}
}

func TestRunMain_Canceled(t *testing.T) {
	var out bytes.Buffer
	if code := runMain(func() error { return context.Canceled }, &out); code != 130 {
		t.Fatalf("runMain() = %d, want 130", code)
	}
	if !strings.Contains(out.String(), "canceled") {
		t.Fatalf("stderr = %q, want canceled notice", out.String())
	}
}

func TestRunMain_SilentExit(t *testing.T) {
	var out bytes.Buffer
	if code := runMain(func() error { return silentExit(exitFailure) }, &out); code != exitFailure {
		t.Fatalf("runMain() = %d, want %d", code, exitFailure)
	}
	if out.Len() != 0 {
		t.Fatalf("stderr = %q, want empty for silent exit", out.String())
	}
}

func TestExitError_Message(t *testing.T) {
	if got := (&exitError{code: 2}).Error(); got != "exit 2" {
		t.Fatalf("Error() = %q", got)
	}
	if got := (&exitError{code: 2, err: errors.New("bad")}).Error(); got != "bad" {
		t.Fatalf("Error() = %q", got)
	}
}
