package desktop

import (
	"context"
	"log"
	"time"
)

// DefaultPollInterval is how often the active desktop is sampled.
const DefaultPollInterval = 200 * time.Millisecond

// Poll samples current every interval and sends a Change whenever the
// result differs from the previous sample. Sampling errors are logged and
// skipped. The channel is closed when ctx is done.
func Poll(ctx context.Context, interval time.Duration, current func() (int, error)) <-chan Change {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	out := make(chan Change, 16)

	go func() {
		defer close(out)

		last, err := current()
		if err != nil {
			log.Printf("Desktop poller: failed to read current desktop: %v", err)
			last = -1
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		failing := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			now, err := current()
			if err != nil {
				if !failing {
					log.Printf("Desktop poller: failed to read current desktop: %v", err)
				}
				failing = true
				continue
			}
			failing = false
			if now == last {
				continue
			}

			select {
			case out <- Change{Old: last, New: now}:
				last = now
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
