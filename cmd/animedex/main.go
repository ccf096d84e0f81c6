package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	domainerr "animedex/internal/domain/errors"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, domainerr.ErrInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
