package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"task-goblin/src/platform"
)

type stressOptions struct {
	n        int
	mode     string
	deadline time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-instance",
		Short:         "Stress test the resident instance port",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().StringVar(&opts.mode, "mode", "ping", "ping|show: probe liveness or raise the resident window")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

func runWithOptions(opts stressOptions) error {
	if opts.mode != "ping" && opts.mode != "show" {
		return fmt.Errorf("unknown mode %q, want ping or show", opts.mode)
	}

	ok, miss, elapsed := stressResident(opts)
	fmt.Fprintf(os.Stdout, "launched=%d ok=%d miss=%d elapsed=%s\n", opts.n, ok, miss, elapsed)
	return nil
}

// stressResident fires n concurrent probes at the resident port range and
// counts answered against missed exchanges.
func stressResident(opts stressOptions) (ok, miss int32, elapsed time.Duration) {
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < opts.n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), opts.deadline)
			defer cancel()

			var answered bool
			if opts.mode == "show" {
				answered = platform.NotifyResident(ctx)
			} else {
				answered = platform.PingResident(ctx)
			}
			if answered {
				atomic.AddInt32(&ok, 1)
				return
			}
			atomic.AddInt32(&miss, 1)
		}()
	}
	wg.Wait()
	return ok, miss, time.Since(start)
}
