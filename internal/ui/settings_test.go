package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ncruces/zenity"

	"github.com/TanaroSch/binkybox/internal/config"
)

// scriptedDialogs answers list and entry prompts from queues. An exhausted
// queue cancels.
type scriptedDialogs struct {
	choices  []string
	entries  []string
	confirm  bool
	errors   []string
	infos    []string
	lastList []string
}

func (d *scriptedDialogs) List(_ string, items []string) (string, error) {
	d.lastList = items
	if len(d.choices) == 0 {
		return "", zenity.ErrCanceled
	}
	c := d.choices[0]
	d.choices = d.choices[1:]
	return c, nil
}

func (d *scriptedDialogs) Entry(_, _ string) (string, error) {
	if len(d.entries) == 0 {
		return "", zenity.ErrCanceled
	}
	e := d.entries[0]
	d.entries = d.entries[1:]
	return e, nil
}

func (d *scriptedDialogs) Question(string) error {
	if d.confirm {
		return nil
	}
	return zenity.ErrCanceled
}

func (d *scriptedDialogs) Error(text string) { d.errors = append(d.errors, text) }
func (d *scriptedDialogs) Info(text string)  { d.infos = append(d.infos, text) }

type settingsHarness struct {
	cfg   *config.Config
	saves int
	fail  error
}

func newHarness(t *testing.T) *settingsHarness {
	return &settingsHarness{cfg: config.Default(filepath.Join(t.TempDir(), config.DefaultPath), 4)}
}

func (h *settingsHarness) settings(d dialogs) *Settings {
	s := NewSettings(
		func() *config.Config { return h.cfg },
		func(c *config.Config) error {
			if h.fail != nil {
				return h.fail
			}
			h.saves++
			h.cfg = c
			return nil
		},
	)
	s.dlg = d
	return s
}

func TestSettingsSavesValidShortcut(t *testing.T) {
	h := newHarness(t)
	d := &scriptedDialogs{
		choices: []string{"Desktop 2: LALT+LSHIFT+2"},
		entries: []string{" ctrl + alt + 2 "},
	}
	h.settings(d).Show()

	if h.saves != 1 {
		t.Fatalf("saves = %d, want 1", h.saves)
	}
	if got, _ := h.cfg.Shortcuts.Get(2); got != "CTRL+ALT+2" {
		t.Errorf("desktop_2 = %q", got)
	}
	if len(d.infos) != 1 || d.infos[0] != "Keyboard shortcuts saved." {
		t.Errorf("infos = %v", d.infos)
	}
	if len(d.lastList) != 5 || d.lastList[1] != "Desktop 2: CTRL+ALT+2" || d.lastList[4] != resetAllItem {
		t.Errorf("list after save = %v", d.lastList)
	}
}

func TestSettingsRejectsInvalidShortcut(t *testing.T) {
	h := newHarness(t)
	d := &scriptedDialogs{
		choices: []string{"Desktop 3: LALT+LSHIFT+3"},
		entries: []string{"1+2+3+4+5"},
	}
	h.settings(d).Show()

	if h.saves != 0 {
		t.Fatalf("invalid shortcut was saved")
	}
	if len(d.errors) != 1 || !strings.HasPrefix(d.errors[0], `Keyboard shortcut for "Switch to Desktop 3" is invalid.`) {
		t.Errorf("errors = %v", d.errors)
	}
}

func TestSettingsResetAll(t *testing.T) {
	h := newHarness(t)
	h.cfg = h.cfg.WithShortcuts(h.cfg.Shortcuts.With(1, "CTRL+1"))
	d := &scriptedDialogs{choices: []string{resetAllItem}, confirm: true}
	h.settings(d).Show()

	if got, _ := h.cfg.Shortcuts.Get(1); got != "LALT+LSHIFT+1" {
		t.Errorf("desktop_1 after reset = %q", got)
	}
}

func TestSettingsSaveFailure(t *testing.T) {
	h := newHarness(t)
	h.fail = errors.New("disk full")
	d := &scriptedDialogs{
		choices: []string{"Desktop 1: LALT+LSHIFT+1"},
		entries: []string{"CTRL+F1"},
	}
	h.settings(d).Show()

	if len(d.errors) != 1 || !strings.Contains(d.errors[0], "disk full") {
		t.Errorf("errors = %v", d.errors)
	}
	if len(d.infos) != 0 {
		t.Errorf("infos = %v", d.infos)
	}
}

func TestSettingsIgnoresSecondShow(t *testing.T) {
	h := newHarness(t)
	s := h.settings(&scriptedDialogs{})
	s.busy.Store(true)
	s.Show()
	if !s.busy.Load() {
		t.Error("second Show cleared the busy flag")
	}
}

func TestSettingsRejectsShortcutOfAnotherSlot(t *testing.T) {
	h := newHarness(t)
	d := &scriptedDialogs{
		choices: []string{"Desktop 2: LALT+LSHIFT+2"},
		entries: []string{"alt+shift+1"},
	}
	h.settings(d).Show()

	if h.saves != 0 {
		t.Fatalf("conflicting shortcut was saved")
	}
	if got, _ := h.cfg.Shortcuts.Get(2); got != "LALT+LSHIFT+2" {
		t.Errorf("desktop_2 = %q", got)
	}
	if len(d.errors) != 1 || !strings.Contains(d.errors[0], "already used by Desktop 1") {
		t.Errorf("errors = %v", d.errors)
	}
	if len(d.infos) != 0 {
		t.Errorf("infos = %v", d.infos)
	}
}

func TestSettingsRewritesInvalidStoredShortcut(t *testing.T) {
	h := newHarness(t)
	h.cfg = h.cfg.WithShortcuts(h.cfg.Shortcuts.With(1, "1+2+3+4+5"))
	d := &scriptedDialogs{
		choices: []string{"Desktop 1: LALT+LSHIFT+1"},
		entries: []string{"LALT+LSHIFT+1"},
	}
	h.settings(d).Show()

	if h.saves != 1 {
		t.Fatalf("saves = %d, want 1", h.saves)
	}
	if got, _ := h.cfg.Shortcuts.Get(1); got != "LALT+LSHIFT+1" {
		t.Errorf("desktop_1 = %q", got)
	}
}

func TestSettingsSkipsUnchangedShortcut(t *testing.T) {
	h := newHarness(t)
	d := &scriptedDialogs{
		choices: []string{"Desktop 1: LALT+LSHIFT+1"},
		entries: []string{"lalt + lshift + 1"},
	}
	h.settings(d).Show()

	if h.saves != 0 || len(d.errors) != 0 {
		t.Errorf("saves = %d, errors = %v", h.saves, d.errors)
	}
}
