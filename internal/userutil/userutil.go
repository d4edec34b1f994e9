// Package userutil derives per-user names for system-wide objects.
package userutil

import (
	"os"
	"os/user"
	"regexp"
	"strings"
)

var invalidUsernameRune = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeUsername makes value safe for use in pipe and mutex names.
func SanitizeUsername(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return invalidUsernameRune.ReplaceAllString(value, "_")
}

// CurrentUsername returns the sanitized name of the user running the process.
func CurrentUsername() string {
	name := strings.TrimSpace(os.Getenv("USERNAME"))
	if name == "" {
		if current, err := user.Current(); err == nil {
			name = current.Username
		}
	}
	return SanitizeUsername(name)
}
