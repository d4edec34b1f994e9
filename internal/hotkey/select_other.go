//go:build !windows

package hotkey

import "fmt"

func newLayer(pref Preference) (Layer, error) {
	return nil, fmt.Errorf("%w: %s input needs Windows", ErrBackendNotAvailable, pref)
}
