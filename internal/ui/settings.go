package ui

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/ncruces/zenity"

	"github.com/TanaroSch/binkybox/internal/config"
	"github.com/TanaroSch/binkybox/internal/keys"
	"github.com/TanaroSch/binkybox/internal/shortcut"
)

// SettingsTitle is the title of every settings dialog. The focus step after
// a desktop switch skips windows with this title.
const SettingsTitle = "BinkyBox Settings"

const resetAllItem = "Reset all to defaults"

// dialogs is the subset of zenity the settings flow uses.
type dialogs interface {
	List(text string, items []string) (string, error)
	Entry(text, initial string) (string, error)
	Question(text string) error
	Error(text string)
	Info(text string)
}

type zenityDialogs struct{}

func (zenityDialogs) List(text string, items []string) (string, error) {
	return zenity.List(text, items, zenity.Title(SettingsTitle), zenity.Height(360))
}

func (zenityDialogs) Entry(text, initial string) (string, error) {
	return zenity.Entry(text, zenity.Title(SettingsTitle), zenity.EntryText(initial))
}

func (zenityDialogs) Question(text string) error {
	return zenity.Question(text,
		zenity.Title(SettingsTitle),
		zenity.WarningIcon,
		zenity.OKLabel("Reset"),
		zenity.CancelLabel("Cancel"))
}

func (zenityDialogs) Error(text string) {
	if err := zenity.Error(text, zenity.Title(SettingsTitle), zenity.ErrorIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("Settings: error dialog failed: %v", err)
	}
}

func (zenityDialogs) Info(text string) {
	if err := zenity.Info(text, zenity.Title(SettingsTitle), zenity.InfoIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("Settings: info dialog failed: %v", err)
	}
}

// Settings edits the per-desktop shortcuts. Shortcuts are validated when
// saved; the rebind that follows never shows dialogs.
type Settings struct {
	current func() *config.Config
	save    func(*config.Config) error
	dlg     dialogs
	busy    atomic.Bool
}

// NewSettings creates the settings flow. current returns the live
// configuration and save persists a new one and rebinds.
func NewSettings(current func() *config.Config, save func(*config.Config) error) *Settings {
	return &Settings{current: current, save: save, dlg: zenityDialogs{}}
}

// Show runs the settings dialogs until the user cancels. A second call while
// the dialogs are open returns immediately.
func (s *Settings) Show() {
	if !s.busy.CompareAndSwap(false, true) {
		log.Println("Settings: dialog already open.")
		return
	}
	defer s.busy.Store(false)

	for {
		cfg := s.current()
		items := make([]string, 0, cfg.Slots()+1)
		for slot := 1; slot <= cfg.Slots(); slot++ {
			value, _ := cfg.Shortcuts.Get(slot)
			canonical, _ := shortcut.Effective(slot, value)
			items = append(items, slotLabel(slot, canonical))
		}
		items = append(items, resetAllItem)

		choice, err := s.dlg.List("Choose the shortcut to change:", items)
		if err != nil {
			if !errors.Is(err, zenity.ErrCanceled) {
				log.Printf("Settings: list dialog failed: %v", err)
			}
			return
		}

		if choice == resetAllItem {
			s.resetAll(cfg)
			continue
		}
		slot := indexOf(items, choice) + 1
		if slot < 1 || slot > cfg.Slots() {
			log.Printf("Settings: unexpected selection '%s'", choice)
			return
		}
		s.edit(cfg, slot)
	}
}

func (s *Settings) edit(cfg *config.Config, slot int) {
	value, _ := cfg.Shortcuts.Get(slot)
	current, _ := shortcut.Effective(slot, value)

	raw, err := s.dlg.Entry(fmt.Sprintf("Keyboard shortcut for \"Switch to Desktop %d\"\n(up to %d keys, e.g. LALT+LSHIFT+%d)",
		slot, shortcut.MaxKeys, slot%10), current)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			log.Printf("Settings: entry dialog failed: %v", err)
		}
		return
	}

	canonical, err := shortcut.Check(raw)
	if err != nil {
		log.Printf("Settings: rejected shortcut '%s' for %s: %v", raw, config.SlotName(slot), err)
		s.dlg.Error(fmt.Sprintf("Keyboard shortcut for \"Switch to Desktop %d\" is invalid.\n\n%v", slot, err))
		return
	}
	if canonical == shortcut.Sanitize(value) {
		return
	}
	if other := conflictingSlot(cfg, slot, canonical); other > 0 {
		log.Printf("Settings: rejected shortcut '%s' for %s: already used by %s", canonical, config.SlotName(slot), config.SlotName(other))
		s.dlg.Error(fmt.Sprintf("Keyboard shortcut for \"Switch to Desktop %d\" is invalid.\n\nIt is already used by Desktop %d.", slot, other))
		return
	}

	next := cfg.WithShortcuts(cfg.Shortcuts.With(slot, canonical))
	if err := s.save(next); err != nil {
		log.Printf("Settings: failed to save shortcuts: %v", err)
		s.dlg.Error(fmt.Sprintf("Failed to save keyboard shortcuts.\n\n%v", err))
		return
	}
	log.Printf("Settings: %s set to '%s'", config.SlotName(slot), canonical)
	s.dlg.Info("Keyboard shortcuts saved.")
}

func (s *Settings) resetAll(cfg *config.Config) {
	if err := s.dlg.Question("Reset every desktop shortcut to its default?"); err != nil {
		return
	}
	next := cfg.WithShortcuts(config.DefaultShortcuts(cfg.Slots()))
	if err := s.save(next); err != nil {
		log.Printf("Settings: failed to save shortcuts: %v", err)
		s.dlg.Error(fmt.Sprintf("Failed to save keyboard shortcuts.\n\n%v", err))
		return
	}
	log.Println("Settings: all shortcuts reset to defaults")
	s.dlg.Info("Keyboard shortcuts saved.")
}

// conflictingSlot returns the other slot whose effective shortcut presses
// the same keys as canonical, or 0. Only one of them could be bound.
func conflictingSlot(cfg *config.Config, slot int, canonical string) int {
	chord := keys.Resolve(canonical).Keys
	for other := 1; other <= cfg.Slots(); other++ {
		if other == slot {
			continue
		}
		value, _ := cfg.Shortcuts.Get(other)
		effective, _ := shortcut.Effective(other, value)
		if keys.Resolve(effective).Keys.Equal(chord) {
			return other
		}
	}
	return 0
}

func slotLabel(slot int, canonical string) string {
	return fmt.Sprintf("Desktop %d: %s", slot, canonical)
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return -1
}
