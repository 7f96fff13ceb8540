package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	code := runMain(Execute, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}

func runMain(execute func() error, stderr io.Writer) int {
	err := execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			fmt.Fprintln(stderr, ee.Error())
		}
		return ee.code
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "canceled")
		return exitCanceled
	}

	fmt.Fprintln(stderr, err)
	return exitFailure
}
