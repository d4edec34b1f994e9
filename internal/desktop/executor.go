package desktop

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// DefaultMaxAttempts bounds the create-and-retry loop of SwitchTo.
const DefaultMaxAttempts = 10

// Executor switches to a desktop, creating desktops until the target exists.
type Executor struct {
	service     Service
	focuser     Focuser
	maxAttempts int

	// ExcludeTitle names a window that never receives focus after a switch.
	ExcludeTitle string

	// SwitchTo chains run one at a time.
	mu sync.Mutex
}

// NewExecutor creates an executor. A maxAttempts below 1 uses
// DefaultMaxAttempts. focuser may be nil to skip the focus step.
func NewExecutor(service Service, maxAttempts int, focuser Focuser) *Executor {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Executor{
		service:     service,
		focuser:     focuser,
		maxAttempts: maxAttempts,
	}
}

// MaxAttempts returns the number of retries after the first failed switch.
func (e *Executor) MaxAttempts() int { return e.maxAttempts }

// SwitchTo activates the desktop with the zero-based index. When the switch
// fails a desktop is created and the switch retried, at most MaxAttempts
// times. Callers only need to log the returned error.
func (e *Executor) SwitchTo(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("invalid desktop index %d", index)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := guard("switch", func() error { return e.service.Switch(index) })
		if err == nil {
			if attempt > 0 {
				log.Printf("Desktop executor: switched to desktop %d after %d retries", index+1, attempt)
			}
			e.focus()
			return nil
		}

		if attempt >= e.maxAttempts {
			log.Printf("Desktop executor: giving up on desktop %d after %d retries: %v", index+1, attempt, err)
			return fmt.Errorf("%w %d after %d retries: %v", ErrGaveUp, index+1, attempt, err)
		}

		log.Printf("Desktop executor: switch to desktop %d failed (%v), creating a desktop", index+1, err)
		if err := guard("create", e.service.Create); err != nil {
			log.Printf("Desktop executor: failed to create desktop: %v", err)
		}
	}
}

func (e *Executor) focus() {
	if e.focuser == nil {
		return
	}
	if err := guard("focus", func() error { return e.focuser.FocusRecent(e.ExcludeTitle) }); err != nil {
		log.Printf("Desktop executor: focus after switch failed: %v", err)
	}
}

// guard runs fn and turns a panic into an error.
func guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("RECOVERED FROM PANIC IN DESKTOP %s: %v", op, r)
			err = fmt.Errorf("%s panicked: %v", op, r)
		}
	}()
	return fn()
}
