// Package desktop switches Windows virtual desktops and reports desktop
// changes.
package desktop

import (
	"context"
	"errors"
)

var (
	// ErrUnsupported is returned by every operation when virtual desktops
	// cannot be controlled on this system.
	ErrUnsupported = errors.New("virtual desktops are not supported on this system")

	// ErrGaveUp is returned when a switch still fails after every retry.
	ErrGaveUp = errors.New("gave up switching desktop")
)

// Change reports that the active desktop moved from Old to New. Indices are
// zero-based.
type Change struct {
	Old int
	New int
}

// Service is the virtual desktop backend.
type Service interface {
	// Switch activates the desktop with the zero-based index.
	Switch(index int) error
	// Create appends a new desktop.
	Create() error
	// Count returns the number of desktops.
	Count() (int, error)
	// Current returns the zero-based index of the active desktop.
	Current() (int, error)
	// Subscribe delivers desktop changes in the order they happen until ctx
	// is done, then closes the channel.
	Subscribe(ctx context.Context) (<-chan Change, error)
}

// Focuser gives keyboard focus to a window after a switch.
type Focuser interface {
	FocusRecent(excludeTitle string) error
}

// Unsupported is the Service used where desktops cannot be controlled.
type Unsupported struct{}

func (Unsupported) Switch(int) error      { return ErrUnsupported }
func (Unsupported) Create() error         { return ErrUnsupported }
func (Unsupported) Count() (int, error)   { return 0, ErrUnsupported }
func (Unsupported) Current() (int, error) { return 0, ErrUnsupported }

func (Unsupported) Subscribe(context.Context) (<-chan Change, error) {
	return nil, ErrUnsupported
}
