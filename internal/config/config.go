package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/TanaroSch/binkybox/internal/shortcut"
)

const (
	// DefaultPath is the shortcut file looked up in the working directory.
	DefaultPath = "binkybox.config.json"

	// DefaultSlots is the number of desktop slots when none is configured.
	DefaultSlots = 8
	MinSlots     = 4
	MaxSlots     = 10

	slotPrefix = "desktop_"
)

// Entry is one desktop slot and its raw shortcut string.
type Entry struct {
	Slot     string
	Shortcut string
}

// Shortcuts is the ordered slot -> shortcut mapping. It is stored as a JSON
// object and always kept sorted by slot number.
type Shortcuts []Entry

// SlotName returns the key of a 1-based slot, e.g. "desktop_3".
func SlotName(n int) string {
	return slotPrefix + strconv.Itoa(n)
}

// SlotNumber parses a slot key. Keys that are not "desktop_<n>" with n >= 1
// report false.
func SlotNumber(name string) (int, bool) {
	if !strings.HasPrefix(name, slotPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(name, slotPrefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// DefaultShortcuts returns the compiled-in mapping for n slots.
func DefaultShortcuts(n int) Shortcuts {
	s := make(Shortcuts, 0, n)
	for i := 1; i <= n; i++ {
		s = append(s, Entry{Slot: SlotName(i), Shortcut: shortcut.Default(i)})
	}
	return s
}

// Get returns the raw shortcut of a 1-based slot.
func (s Shortcuts) Get(slot int) (string, bool) {
	name := SlotName(slot)
	for _, e := range s {
		if e.Slot == name {
			return e.Shortcut, true
		}
	}
	return "", false
}

// With returns a copy of s with slot set to value.
func (s Shortcuts) With(slot int, value string) Shortcuts {
	out := make(Shortcuts, 0, len(s)+1)
	name := SlotName(slot)
	found := false
	for _, e := range s {
		if e.Slot == name {
			e.Shortcut = value
			found = true
		}
		out = append(out, e)
	}
	if !found {
		out = append(out, Entry{Slot: name, Shortcut: value})
		out.sortBySlot()
	}
	return out
}

func (s Shortcuts) sortBySlot() {
	sort.SliceStable(s, func(i, j int) bool {
		ni, okI := SlotNumber(s[i].Slot)
		nj, okJ := SlotNumber(s[j].Slot)
		switch {
		case okI && okJ:
			return ni < nj
		case okI != okJ:
			return okI
		default:
			return s[i].Slot < s[j].Slot
		}
	})
}

// MarshalJSON writes the mapping as an object in slot order.
func (s Shortcuts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Slot)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Shortcut)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of slot -> string. Non-string values are
// skipped with a log line rather than failing the whole file.
func (s *Shortcuts) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Shortcuts, 0, len(raw))
	for name, msg := range raw {
		var value string
		if err := json.Unmarshal(msg, &value); err != nil {
			log.Printf("Config: ignoring non-string value for '%s'", name)
			continue
		}
		out = append(out, Entry{Slot: name, Shortcut: value})
	}
	out.sortBySlot()
	*s = out
	return nil
}

// Config is the content of the shortcut file.
type Config struct {
	Shortcuts Shortcuts `json:"shortcuts"`

	path  string
	slots int
}

// Default returns the built-in configuration for n slots.
func Default(path string, slots int) *Config {
	return &Config{
		Shortcuts: DefaultShortcuts(slots),
		path:      path,
		slots:     slots,
	}
}

// Path returns the file the configuration was read from.
func (c *Config) Path() string { return c.path }

// Slots returns the number of desktop slots of this deployment.
func (c *Config) Slots() int { return c.slots }

// ClampSlots keeps a slot count within the supported range.
func ClampSlots(n int) int {
	if n < MinSlots {
		return MinSlots
	}
	if n > MaxSlots {
		return MaxSlots
	}
	return n
}

// Load reads the shortcut file. It never fails: a missing file is created
// with the defaults, and unreadable or malformed content yields the defaults.
// Slots missing from the file are filled with their default shortcut.
func Load(path string, slots int) *Config {
	slots = ClampSlots(slots)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file '%s' not found. Creating default.", path)
			cfg := Default(path, slots)
			if err := cfg.Save(); err != nil {
				log.Printf("Warning: failed to write default config '%s': %v", path, err)
			}
			return cfg
		}
		log.Printf("Warning: failed to read config file '%s': %v. Using defaults.", path, err)
		return Default(path, slots)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Warning: failed to parse config file '%s': %v. Using defaults.", path, err)
		return Default(path, slots)
	}
	cfg.path = path
	cfg.slots = slots

	for i := 1; i <= slots; i++ {
		if _, ok := cfg.Shortcuts.Get(i); !ok {
			cfg.Shortcuts = cfg.Shortcuts.With(i, shortcut.Default(i))
		}
	}
	return &cfg
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", c.path, err)
	}
	return nil
}

// WithShortcuts returns a copy of c holding s.
func (c *Config) WithShortcuts(s Shortcuts) *Config {
	cp := *c
	cp.Shortcuts = append(Shortcuts(nil), s...)
	return &cp
}
