package hotkey

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
)

// DisplayServer represents the type of display server in use
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerWindows
	DisplayServerX11
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerWindows:
		return "Windows"
	case DisplayServerX11:
		return "X11"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// DetectDisplayServer determines which display server is currently in use.
// Only Windows has a usable input layer; the result is used for logging on
// other systems.
func DetectDisplayServer() DisplayServer {
	if runtime.GOOS == "windows" {
		return DisplayServerWindows
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// Preference names the input layer to use.
type Preference string

const (
	PreferHook   Preference = "hook"
	PreferHotkey Preference = "hotkey"
)

// ParsePreference accepts "hook" or "hotkey"; an empty value means hook.
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PreferHook:
		return PreferHook, nil
	case PreferHotkey:
		return PreferHotkey, nil
	default:
		return "", fmt.Errorf("unknown input layer '%s' (want hook or hotkey)", s)
	}
}

// SelectLayer returns the input layer for pref on this system.
func SelectLayer(pref Preference) (Layer, error) {
	ds := DetectDisplayServer()
	layer, err := newLayer(pref)
	if err != nil {
		log.Printf("Input layer unavailable on %s: %v", ds, err)
		return nil, err
	}
	log.Printf("Selected input layer: %s for %s", layer.Name(), ds)
	return layer, nil
}
