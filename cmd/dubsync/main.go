package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	switch {
	case err == nil:
		return
	case errors.Is(err, errReported), errors.Is(err, context.Canceled):
	default:
		fmt.Fprintf(os.Stderr, "dubsync: %v\n", err)
	}
	os.Exit(1)
}
