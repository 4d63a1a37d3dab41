// Package supervise keeps the perpetual poll loops alive. A loop that
// panics is logged and restarted with a growing delay; it only stops for
// good when its context ends.
package supervise

import (
	"context"
	"log"
	"time"
)

// Loop is a long-running function expected to return only once its context
// is done.
type Loop func(ctx context.Context)

var backoffUnit = time.Second

const maxBackoff = 30 * time.Second

// Go launches the loop on its own goroutine under crash supervision.
func Go(ctx context.Context, name string, loop Loop) {
	go func() {
		crashes := 0
		for {
			runOnce(name, ctx, loop)
			if ctx.Err() != nil {
				return
			}

			crashes++
			backoff := time.Duration(crashes) * backoffUnit
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			log.Printf("Loop %s down (crash %d), restarting in %s", name, crashes, backoff)

			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}()
}

func runOnce(name string, ctx context.Context, loop Loop) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in loop %s: %v", name, r)
		}
	}()
	loop(ctx)
}
