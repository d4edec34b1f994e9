package app

import (
	"context"
	"fmt"
	"log"

	"github.com/TanaroSch/binkybox/internal/config"
	"github.com/TanaroSch/binkybox/internal/hotkey"
	"github.com/TanaroSch/binkybox/internal/ipc"
	"github.com/TanaroSch/binkybox/internal/shortcut"
)

// triggerQueueSize bounds the presses waiting for the switch worker.
const triggerQueueSize = 16

// enqueue hands t to the switch worker without blocking.
func enqueue(ch chan<- hotkey.Press, t hotkey.Press) bool {
	select {
	case ch <- t:
		return true
	default:
		return false
	}
}

// runSwitcher performs queued switches one after another until ctx is done.
func runSwitcher(ctx context.Context, triggers <-chan hotkey.Press, switchTo func(context.Context, int) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-triggers:
			log.Printf("Switch worker: desktop %d requested (%s)", t.Slot, t.Shortcut)
			if err := switchTo(ctx, t.Index); err != nil {
				log.Printf("Switch worker: %v", err)
			}
		}
	}
}

// controlHandler answers requests from `binkybox -send` and second launches.
type controlHandler struct {
	slots    int
	switchTo func(index int) bool
	reload   func()
	settings func()
	quit     func()
}

func (h controlHandler) Handle(req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandReload:
		h.reload()
	case ipc.CommandSettings:
		h.settings()
	case ipc.CommandQuit:
		h.quit()
	case ipc.CommandSwitch:
		if req.Desktop < 1 || req.Desktop > h.slots {
			return ipc.Response{Error: fmt.Sprintf("desktop must be between 1 and %d", h.slots)}
		}
		if !h.switchTo(req.Desktop - 1) {
			return ipc.Response{Error: "busy, try again"}
		}
	default:
		return ipc.Response{Error: fmt.Sprintf("unknown command '%s'", req.Command)}
	}
	return ipc.Response{OK: true}
}

// menuShortcuts lists the bound shortcut of every slot for the tray menu.
// Slots left unbound show an empty shortcut.
func menuShortcuts(entries []hotkey.Entry, slots int) []string {
	out := make([]string, slots)
	for _, e := range entries {
		if e.Duplicate || len(e.Keys) == 0 {
			continue
		}
		if e.Slot >= 1 && e.Slot <= slots {
			out[e.Slot-1] = e.Shortcut
		}
	}
	return out
}

// effectiveShortcuts lists the shortcut each slot of cfg resolves to,
// defaults included.
func effectiveShortcuts(cfg *config.Config) []string {
	out := make([]string, cfg.Slots())
	for slot := 1; slot <= cfg.Slots(); slot++ {
		value, _ := cfg.Shortcuts.Get(slot)
		out[slot-1], _ = shortcut.Effective(slot, value)
	}
	return out
}
