package hotkey

import (
	"context"
	"errors"

	"github.com/TanaroSch/binkybox/internal/keys"
)

// ErrBackendNotAvailable is returned when no input layer can be used on the current system.
var ErrBackendNotAvailable = errors.New("input layer not available on this system")

// Result is what a key listener decided about one key press.
type Result int

const (
	// Defer means the listener's chord is not held; other listeners and
	// applications get the event.
	Defer Result = iota
	// PassThrough means the chord is held together with an unrelated key.
	// The press is left alone so ordinary typing is never swallowed.
	PassThrough
	// Trigger means the chord matched exactly. The action was dispatched and
	// the key event is blocked.
	Trigger
)

func (r Result) String() string {
	switch r {
	case Defer:
		return "defer"
	case PassThrough:
		return "pass-through"
	case Trigger:
		return "trigger"
	default:
		return "unknown"
	}
}

// Listener is called by a Layer on the input thread when its key goes down.
// It must return quickly and never block.
type Listener func() Result

// Layer abstracts the platform input layer: key state queries, per-key
// listener registration and the blocking event loop.
type Layer interface {
	// Name returns a human-readable name for logging.
	Name() string

	// IsPressed reports whether the key is currently held.
	IsPressed(k keys.ID) bool

	// Bind installs fn for presses of k. With blockable set, a Trigger
	// result consumes the event. Binding a key again replaces its listener.
	Bind(k keys.ID, blockable bool, fn Listener) error

	// Unbind removes the listener of k. Unbinding an unbound key is a no-op.
	Unbind(k keys.ID) error

	// Run dispatches input events until ctx is done.
	Run(ctx context.Context) error
}

// ChordLayer is implemented by layers that register whole key combinations
// with the system instead of watching single keys.
type ChordLayer interface {
	Layer

	// BindChord installs fn for the exact combination c.
	BindChord(c keys.Chord, fn Listener) error

	// UnbindChord removes a combination installed with BindChord.
	UnbindChord(c keys.Chord) error
}
