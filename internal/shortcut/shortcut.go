// Package shortcut validates and normalizes user supplied shortcut strings
// such as "ctrl + alt + 1".
package shortcut

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/TanaroSch/binkybox/internal/keys"
)

// MaxKeys is the longest chord a shortcut may describe.
const MaxKeys = 4

var (
	ErrEmpty           = errors.New("shortcut is empty")
	ErrTooManyKeys     = fmt.Errorf("shortcut has more than %d keys", MaxKeys)
	ErrEmptyToken      = errors.New("shortcut has an empty key between '+' separators")
	ErrUnknownToken    = errors.New("unknown key name")
	ErrModifierLast    = errors.New("shortcut must end with a letter, digit or function key")
	ErrTerminalNotLast = errors.New("only the last key may be a letter, digit or function key")
	ErrDuplicateToken  = errors.New("key is used more than once")
)

// Sanitize uppercases raw and removes all whitespace.
func Sanitize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, raw)
}

// Validate reports whether canonical is a well formed shortcut: up to three
// modifiers followed by exactly one terminal key, joined by "+".
func Validate(canonical string) bool {
	return check(canonical) == nil
}

// Check sanitizes raw and validates it, returning the canonical form or an
// error describing the first problem found.
func Check(raw string) (string, error) {
	canonical := Sanitize(raw)
	if err := check(canonical); err != nil {
		return canonical, err
	}
	return canonical, nil
}

func check(canonical string) error {
	if canonical == "" {
		return ErrEmpty
	}
	tokens := strings.Split(canonical, keys.Separator)
	if len(tokens) > MaxKeys {
		return ErrTooManyKeys
	}

	// CTRL and LCTRL are the same physical key, so duplicates are tracked by key.
	seen := make(map[keys.ID]bool, len(tokens))
	last := len(tokens) - 1
	for i, token := range tokens {
		if token == "" {
			return ErrEmptyToken
		}
		if id, ok := keys.Lookup(token); ok {
			if seen[id] {
				return fmt.Errorf("%w: %s", ErrDuplicateToken, token)
			}
			seen[id] = true
		}

		switch {
		case keys.IsModifierName(token):
			if i == last {
				return ErrModifierLast
			}
		case keys.IsTerminalName(token):
			if i != last {
				return fmt.Errorf("%w: %s", ErrTerminalNotLast, token)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownToken, token)
		}
	}
	return nil
}

// Default returns the compiled-in shortcut for a 1-based desktop slot.
func Default(slot int) string {
	return fmt.Sprintf("LALT+LSHIFT+%d", slot%10)
}

// Effective returns the canonical shortcut to bind for slot. When raw does not
// validate, the slot's default is used and fellBack is true.
func Effective(slot int, raw string) (canonical string, fellBack bool) {
	canonical = Sanitize(raw)
	if Validate(canonical) {
		return canonical, false
	}
	return Default(slot), true
}
