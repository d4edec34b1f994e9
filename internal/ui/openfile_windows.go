//go:build windows

package ui

import (
	"fmt"
	"log"

	"github.com/pkg/browser"
)

// OpenFileInDefaultApp opens filePath with the application registered for
// it, falling back to the rundll32 handler of pkg/browser.
func OpenFileInDefaultApp(filePath string) error {
	log.Printf("Opening file in default app: %s", filePath)
	err := shellOpen(filePath)
	if err == nil {
		return nil
	}
	log.Printf("ShellExecute could not open '%s': %v. Trying fallback.", filePath, err)

	if fallbackErr := browser.OpenFile(filePath); fallbackErr != nil {
		log.Printf("Failed to open '%s': %v", filePath, fallbackErr)
		return fmt.Errorf("failed to open '%s': %w", filePath, err)
	}
	return nil
}
