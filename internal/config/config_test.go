package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	cfg := Load(path, 4)
	if len(cfg.Shortcuts) != 4 {
		t.Fatalf("len(Shortcuts) = %d, want 4", len(cfg.Shortcuts))
	}
	if got, _ := cfg.Shortcuts.Get(1); got != "LALT+LSHIFT+1" {
		t.Errorf("desktop_1 = %q", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file was not written: %v", err)
	}

	again := Load(path, 4)
	if got, _ := again.Shortcuts.Get(4); got != "LALT+LSHIFT+4" {
		t.Errorf("reloaded desktop_4 = %q", got)
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path, 8)
	if len(cfg.Shortcuts) != 8 {
		t.Fatalf("len(Shortcuts) = %d, want 8", len(cfg.Shortcuts))
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadFillsMissingSlotsAndKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	content := `{"shortcuts": {"desktop_10": "ctrl+0", "desktop_2": "ctrl+alt+2", "desktop_1": 5, "other": "x"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path, 10)

	if got, _ := cfg.Shortcuts.Get(2); got != "ctrl+alt+2" {
		t.Errorf("desktop_2 = %q", got)
	}
	if got, _ := cfg.Shortcuts.Get(1); got != "LALT+LSHIFT+1" {
		t.Errorf("non-string desktop_1 should fall back, got %q", got)
	}
	if got, _ := cfg.Shortcuts.Get(10); got != "ctrl+0" {
		t.Errorf("desktop_10 = %q", got)
	}

	var order []string
	for _, e := range cfg.Shortcuts {
		order = append(order, e.Slot)
	}
	want := "desktop_1,desktop_2,desktop_3,desktop_4,desktop_5,desktop_6,desktop_7,desktop_8,desktop_9,desktop_10,other"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s\nwant    %s", got, want)
	}
}

func TestSaveWritesOrderedObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	cfg := Default(path, 10)
	cfg.Shortcuts = cfg.Shortcuts.With(3, "CTRL+ALT+3")

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	text := string(data)
	if strings.Index(text, `"desktop_2"`) > strings.Index(text, `"desktop_10"`) {
		t.Errorf("slots are not written in numeric order:\n%s", text)
	}

	var decoded struct {
		Shortcuts map[string]string `json:"shortcuts"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("saved file is not valid JSON: %v", err)
	}
	if decoded.Shortcuts["desktop_3"] != "CTRL+ALT+3" {
		t.Errorf("desktop_3 = %q", decoded.Shortcuts["desktop_3"])
	}
}

func TestClampSlots(t *testing.T) {
	tests := map[int]int{0: MinSlots, 4: 4, 8: 8, 10: 10, 42: MaxSlots}
	for in, want := range tests {
		if got := ClampSlots(in); got != want {
			t.Errorf("ClampSlots(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestSlotNumber(t *testing.T) {
	if n, ok := SlotNumber("desktop_7"); !ok || n != 7 {
		t.Errorf("SlotNumber(desktop_7) = %d, %v", n, ok)
	}
	for _, bad := range []string{"desktop_0", "desktop_", "desktop_x", "slot_1"} {
		if _, ok := SlotNumber(bad); ok {
			t.Errorf("SlotNumber(%q) accepted", bad)
		}
	}
}

func TestWatchReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	if err := Default(path, 4).Save(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Keep writing until the watcher is set up and reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-changed:
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch() error = %v", err)
			}
			return
		case <-tick.C:
			cfg := Default(path, 4)
			cfg.Shortcuts = cfg.Shortcuts.With(1, "CTRL+1")
			if err := cfg.Save(); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}
