package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/connorhough/wakeup/cmd"
	"github.com/connorhough/wakeup/internal/wakeup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		var serr *wakeup.StageError
		if errors.As(err, &serr) {
			os.Exit(serr.ExitCode())
		}
		os.Exit(1)
	}
}
