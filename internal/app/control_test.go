package app

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/TanaroSch/binkybox/internal/config"
	"github.com/TanaroSch/binkybox/internal/hotkey"
	"github.com/TanaroSch/binkybox/internal/ipc"
	"github.com/TanaroSch/binkybox/internal/keys"
)

func TestEnqueueDropsWhenFull(t *testing.T) {
	ch := make(chan hotkey.Press, 1)
	if !enqueue(ch, hotkey.Press{Slot: 1}) {
		t.Fatal("first enqueue rejected")
	}
	if enqueue(ch, hotkey.Press{Slot: 2}) {
		t.Fatal("enqueue on a full queue should not block or succeed")
	}
	if got := <-ch; got.Slot != 1 {
		t.Errorf("queued slot = %d, want 1", got.Slot)
	}
}

func TestRunSwitcherKeepsOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	triggers := make(chan hotkey.Press, 4)
	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	switchTo := func(_ context.Context, index int) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, index)
		if len(got) == 3 {
			close(done)
		}
		if index == 1 {
			return errors.New("switch failed")
		}
		return nil
	}

	stopped := make(chan struct{})
	go func() {
		runSwitcher(ctx, triggers, switchTo)
		close(stopped)
	}()

	for _, i := range []int{2, 1, 0} {
		triggers <- hotkey.Press{Slot: i + 1, Index: i}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("switch worker did not drain the queue")
	}
	mu.Lock()
	if want := []int{2, 1, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("switch order = %v, want %v", got, want)
	}
	mu.Unlock()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("switch worker did not stop on cancel")
	}
}

type controlRecorder struct {
	calls    []string
	switched []int
	accept   bool
}

func (r *controlRecorder) handler() controlHandler {
	return controlHandler{
		slots: 4,
		switchTo: func(index int) bool {
			r.switched = append(r.switched, index)
			return r.accept
		},
		reload:   func() { r.calls = append(r.calls, "reload") },
		settings: func() { r.calls = append(r.calls, "settings") },
		quit:     func() { r.calls = append(r.calls, "quit") },
	}
}

func TestControlHandler(t *testing.T) {
	tests := []struct {
		name     string
		req      ipc.Request
		accept   bool
		wantOK   bool
		calls    []string
		switched []int
	}{
		{name: "reload", req: ipc.Request{Command: ipc.CommandReload}, wantOK: true, calls: []string{"reload"}},
		{name: "settings", req: ipc.Request{Command: ipc.CommandSettings}, wantOK: true, calls: []string{"settings"}},
		{name: "quit", req: ipc.Request{Command: ipc.CommandQuit}, wantOK: true, calls: []string{"quit"}},
		{name: "switch", req: ipc.Request{Command: ipc.CommandSwitch, Desktop: 3}, accept: true, wantOK: true, switched: []int{2}},
		{name: "switch busy", req: ipc.Request{Command: ipc.CommandSwitch, Desktop: 1}, switched: []int{0}},
		{name: "switch out of range", req: ipc.Request{Command: ipc.CommandSwitch, Desktop: 5}, accept: true},
		{name: "unknown", req: ipc.Request{Command: "dance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &controlRecorder{accept: tt.accept}
			resp := r.handler().Handle(tt.req)
			if resp.OK != tt.wantOK {
				t.Fatalf("Handle(%s) = %+v, want OK %v", tt.req, resp, tt.wantOK)
			}
			if !resp.OK && resp.Error == "" {
				t.Error("failed response has no error text")
			}
			if !reflect.DeepEqual(r.calls, tt.calls) {
				t.Errorf("calls = %v, want %v", r.calls, tt.calls)
			}
			if !reflect.DeepEqual(r.switched, tt.switched) {
				t.Errorf("switched = %v, want %v", r.switched, tt.switched)
			}
		})
	}
}

func TestMenuShortcuts(t *testing.T) {
	chord := func(k keys.ID) keys.Chord { return keys.Chord{keys.LCtrl, k} }
	entries := []hotkey.Entry{
		{Slot: 2, Shortcut: "LCTRL+2", Keys: chord('2')},
		{Slot: 1, Shortcut: "LCTRL+1", Keys: chord('1')},
		{Slot: 3, Shortcut: "CTRL+1", Keys: chord('1'), Duplicate: true},
		{Slot: 4, Shortcut: "LALT+LSHIFT+4"},
		{Slot: 9, Shortcut: "LCTRL+9", Keys: chord('9')},
	}
	got := menuShortcuts(entries, 4)
	if want := []string{"LCTRL+1", "LCTRL+2", "", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("menuShortcuts() = %v, want %v", got, want)
	}
}

func TestEffectiveShortcutsFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binkybox.config.json")
	cfg := config.Default(path, 4)
	cfg = cfg.WithShortcuts(cfg.Shortcuts.With(2, "ctrl+alt+2").With(3, "1+2+3+4+5"))

	got := effectiveShortcuts(cfg)
	want := []string{"LALT+LSHIFT+1", "CTRL+ALT+2", "LALT+LSHIFT+3", "LALT+LSHIFT+4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("effectiveShortcuts() = %v, want %v", got, want)
	}
}
