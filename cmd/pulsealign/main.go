// Command pulsealign conditions, segments and aligns pulsed-field shots.
//
// Usage:
//
//	pulsealign run -c run.yaml [shot ...]
//	pulsealign windows [--length N] [window-name ...]
//
// The run command loads every shot named in the configuration or on the
// command line, smooths and segments it at the field maximum, resamples
// all shots onto the field grid of the weakest one and writes the aligned
// branches as tab-separated files. Flags and PULSEALIGN_* environment
// variables override the configuration file.
//
// Examples:
//
//	pulsealign run -c run.yaml -o aligned/
//	PULSEALIGN_THRESHOLD=0.1 pulsealign run -c run.yaml shot07.txt shot08.txt
//	pulsealign windows --length 21 hanning blackman
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
