//go:build windows

package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/TanaroSch/binkybox/internal/keys"
)

// Only one low-level keyboard hook runs per process. The callback is created
// once because windows.NewCallback slots are never released.
var (
	activeHook   atomic.Pointer[HookLayer]
	hookCallback = windows.NewCallback(lowLevelKeyboardProc)
)

// HookLayer watches every key press through a WH_KEYBOARD_LL hook and calls
// the listener bound to the pressed key. Keys whose press triggered stay
// blocked until they are released, so auto-repeat does not leak through.
type HookLayer struct {
	mu       sync.RWMutex
	bindings map[keys.ID]binding

	// gate is only used on the hook thread.
	gate *keyGate

	running  atomic.Bool
	threadID atomic.Uint32
}

// NewHookLayer creates a hook layer. The hook is installed by Run.
func NewHookLayer() *HookLayer {
	h := &HookLayer{bindings: make(map[keys.ID]binding)}
	h.gate = newKeyGate(h.lookup)
	return h
}

func (h *HookLayer) lookup(k keys.ID) (binding, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	b, ok := h.bindings[k]
	return b, ok
}

func (h *HookLayer) Name() string { return "low-level keyboard hook" }

func (h *HookLayer) IsPressed(k keys.ID) bool { return isKeyDown(k) }

func (h *HookLayer) Bind(k keys.ID, blockable bool, fn Listener) error {
	if fn == nil {
		return fmt.Errorf("bind %s: nil listener", k)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bindings[k] = binding{fn: fn, blockable: blockable}
	return nil
}

func (h *HookLayer) Unbind(k keys.ID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.bindings, k)
	return nil
}

// Run installs the hook on a locked OS thread and pumps its message queue
// until ctx is done.
func (h *HookLayer) Run(ctx context.Context) error {
	if err := user32.Load(); err != nil {
		return fmt.Errorf("%w: user32.dll: %v", ErrBackendNotAvailable, err)
	}
	if !activeHook.CompareAndSwap(nil, h) {
		return errors.New("a keyboard hook is already running")
	}
	defer activeHook.CompareAndSwap(h, nil)

	ready := make(chan error, 1)
	done := make(chan struct{})
	go h.loop(ready, done)

	if err := <-ready; err != nil {
		return err
	}
	log.Printf("Hook layer: keyboard hook installed")

	select {
	case <-ctx.Done():
		if err := postQuit(h.threadID.Load()); err != nil {
			log.Printf("Hook layer: failed to stop message loop: %v", err)
		}
		<-done
	case <-done:
	}
	log.Printf("Hook layer: keyboard hook removed")
	return nil
}

func (h *HookLayer) loop(ready chan<- error, done chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	h.threadID.Store(windows.GetCurrentThreadId())
	ensureMessageQueue()

	hook, _, err := procSetWindowsHookExW.Call(whKeyboardLL, hookCallback, 0, 0)
	if hook == 0 {
		ready <- fmt.Errorf("SetWindowsHookExW: %w", err)
		return
	}
	defer procUnhookWindowsHookEx.Call(hook)
	h.running.Store(true)
	defer h.running.Store(false)
	ready <- nil

	for {
		var msg winMsg
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			log.Printf("Hook layer: GetMessageW failed: %v", err)
			return
		case 0:
			return
		}
	}
}

func lowLevelKeyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		if h := activeHook.Load(); h != nil && h.running.Load() {
			ev := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
			if ev.flags&llkhfInjected == 0 {
				var consumed bool
				switch wParam {
				case wmKeyDown, wmSysKeyDown:
					consumed = h.gate.handle(keys.ID(ev.vkCode), true)
				case wmKeyUp, wmSysKeyUp:
					consumed = h.gate.handle(keys.ID(ev.vkCode), false)
				}
				if consumed {
					return 1
				}
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

var _ Layer = (*HookLayer)(nil)
