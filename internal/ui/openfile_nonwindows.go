//go:build !windows

package ui

import (
	"fmt"
	"log"
	"runtime"

	"github.com/pkg/browser"
)

// OpenFileInDefaultApp hands filePath to the desktop's opener (open on
// macOS, xdg-open elsewhere).
func OpenFileInDefaultApp(filePath string) error {
	log.Printf("Opening file in default app: %s (OS=%s)", filePath, runtime.GOOS)
	if err := browser.OpenFile(filePath); err != nil {
		log.Printf("Failed to open '%s': %v", filePath, err)
		return fmt.Errorf("failed to open '%s': %w", filePath, err)
	}
	return nil
}
