//go:build windows

package ui

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// shellOpen asks the shell to open path with its associated application.
func shellOpen(path string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("invalid path '%s': %w", path, err)
	}
	if err := windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("ShellExecute failed for '%s': %w", path, err)
	}
	return nil
}
