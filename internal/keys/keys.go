// Package keys holds the fixed table of key names understood by BinkyBox and
// resolves canonical shortcut strings into physical key identifiers.
package keys

import (
	"fmt"
	"sort"
	"strings"
)

// ID identifies a physical key. Values are Windows virtual-key codes so the
// input layers can use them without translation.
type ID uint16

// Modifier keys. Bare names (CTRL, ALT, WIN, SHIFT) resolve to the left key.
const (
	LShift   ID = 0xA0
	RShift   ID = 0xA1
	LCtrl    ID = 0xA2
	RCtrl    ID = 0xA3
	LAlt     ID = 0xA4
	RAlt     ID = 0xA5
	LWin     ID = 0x5B
	RWin     ID = 0x5C
	CapsLock ID = 0x14
)

const (
	vkDigit0 ID = 0x30
	vkLetter ID = 0x41
	vkF1     ID = 0x70

	// MaxFunctionKey is the highest Fn key in the table.
	MaxFunctionKey = 24
)

// Separator joins tokens in a canonical shortcut.
const Separator = "+"

var (
	byName    map[string]ID
	names     map[ID]string
	modifiers map[ID]bool
	universe  []ID
)

var modifierNames = map[string]ID{
	"CTRL":     LCtrl,
	"LCTRL":    LCtrl,
	"RCTRL":    RCtrl,
	"ALT":      LAlt,
	"LALT":     LAlt,
	"RALT":     RAlt,
	"WIN":      LWin,
	"LWIN":     LWin,
	"RWIN":     RWin,
	"SHIFT":    LShift,
	"LSHIFT":   LShift,
	"RSHIFT":   RShift,
	"CAPSLOCK": CapsLock,
}

func init() {
	byName = make(map[string]ID, 80)
	names = make(map[ID]string, 80)
	modifiers = make(map[ID]bool, 9)

	for name, id := range modifierNames {
		byName[name] = id
		modifiers[id] = true
	}
	// Physical names for the reverse lookup; bare synonyms never win.
	for _, name := range []string{"LCTRL", "RCTRL", "LALT", "RALT", "LWIN", "RWIN", "LSHIFT", "RSHIFT", "CAPSLOCK"} {
		names[modifierNames[name]] = name
	}

	for i := 0; i < 26; i++ {
		name := string(rune('A' + i))
		id := vkLetter + ID(i)
		byName[name] = id
		names[id] = name
	}
	for i := 0; i < 10; i++ {
		name := string(rune('0' + i))
		id := vkDigit0 + ID(i)
		byName[name] = id
		names[id] = name
	}
	for i := 1; i <= MaxFunctionKey; i++ {
		name := fmt.Sprintf("F%d", i)
		id := vkF1 + ID(i-1)
		byName[name] = id
		names[id] = name
	}

	universe = make([]ID, 0, len(names))
	for id := range names {
		universe = append(universe, id)
	}
	sort.Slice(universe, func(i, j int) bool { return universe[i] < universe[j] })
}

// Lookup returns the key for a canonical token name.
func Lookup(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

// Name returns the physical name of a key, e.g. "LCTRL" or "F5".
func Name(id ID) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("VK_%#02x", uint16(id))
}

func (id ID) String() string { return Name(id) }

// IsModifier reports whether id is one of the modifier keys.
func IsModifier(id ID) bool { return modifiers[id] }

// IsModifierName reports whether token names a modifier.
func IsModifierName(token string) bool {
	_, ok := modifierNames[token]
	return ok
}

// IsTerminalName reports whether token names a key that can end a shortcut.
func IsTerminalName(token string) bool {
	id, ok := byName[token]
	return ok && !modifiers[id]
}

// All returns every distinct physical key in the table, in ascending order.
// The returned slice must not be modified.
func All() []ID { return universe }

// Chord is an ordered key sequence: modifiers first, terminal key last.
type Chord []ID

// Terminal returns the last key of the chord.
func (c Chord) Terminal() (ID, bool) {
	if len(c) == 0 {
		return 0, false
	}
	return c[len(c)-1], true
}

// Contains reports whether id is part of the chord.
func (c Chord) Contains(id ID) bool {
	for _, k := range c {
		if k == id {
			return true
		}
	}
	return false
}

// Equal reports whether both chords hold the same keys, ignoring modifier order.
func (c Chord) Equal(other Chord) bool {
	if len(c) != len(other) {
		return false
	}
	ct, _ := c.Terminal()
	ot, _ := other.Terminal()
	if ct != ot {
		return false
	}
	for _, k := range c {
		if !other.Contains(k) {
			return false
		}
	}
	return true
}

func (c Chord) String() string {
	parts := make([]string, len(c))
	for i, k := range c {
		parts[i] = Name(k)
	}
	return strings.Join(parts, Separator)
}

// Resolution is the outcome of resolving a canonical shortcut. Resolution is
// best effort: unknown tokens are dropped and listed in Dropped.
type Resolution struct {
	Keys    Chord
	Dropped []string
}

// Resolve splits a canonical shortcut on "+" and looks up every token.
func Resolve(canonical string) Resolution {
	var res Resolution
	if canonical == "" {
		return res
	}
	for _, token := range strings.Split(canonical, Separator) {
		id, ok := byName[token]
		if !ok {
			res.Dropped = append(res.Dropped, token)
			continue
		}
		res.Keys = append(res.Keys, id)
	}
	return res
}
