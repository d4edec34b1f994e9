//go:build windows

package desktop

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows         = user32.NewProc("EnumWindows")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetWindowTextLength = user32.NewProc("GetWindowTextLengthW")
	procGetWindowLongW      = user32.NewProc("GetWindowLongW")
	procGetTitleBarInfo     = user32.NewProc("GetTitleBarInfo")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
)

const (
	gwlExStyle           int32 = -20
	wsExToolWindow             = 0x00000080
	stateSystemInvisible       = 0x00008000
)

type rect struct {
	left, top, right, bottom int32
}

// titleBarInfo mirrors TITLEBARINFO.
type titleBarInfo struct {
	cbSize     uint32
	rcTitleBar rect
	rgstate    [6]uint32
}

var (
	enumCallback = windows.NewCallback(enumWindowsProc)

	// enumTarget collects the handles of the running enumeration.
	enumMu     sync.Mutex
	enumTarget *[]uintptr
)

func enumWindowsProc(hwnd uintptr, _ uintptr) uintptr {
	*enumTarget = append(*enumTarget, hwnd)
	return 1
}

// topLevelWindows lists the top-level windows in z-order, topmost first.
func topLevelWindows() ([]Window, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var handles []uintptr
	enumMu.Lock()
	enumTarget = &handles
	ret, _, err := procEnumWindows.Call(enumCallback, 0)
	enumTarget = nil
	enumMu.Unlock()
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}

	vdm, err := newDesktopManager()
	if err != nil {
		log.Printf("Desktop focus: desktop manager unavailable, assuming every window is on the current desktop: %v", err)
	} else {
		defer vdm.Release()
	}

	out := make([]Window, 0, len(handles))
	for _, h := range handles {
		w := Window{
			Handle:           h,
			Title:            windowText(h),
			Visible:          isWindowVisible(h),
			TitleBarVisible:  titleBarVisible(h),
			ToolWindow:       exStyle(h)&wsExToolWindow != 0,
			OnCurrentDesktop: true,
		}
		if vdm != nil && w.Visible && w.Title != "" {
			on, err := vdm.IsWindowOnCurrentVirtualDesktop(h)
			if err == nil {
				w.OnCurrentDesktop = on
			}
		}
		out = append(out, w)
	}
	return out, nil
}

func windowText(h uintptr) string {
	n, _, _ := procGetWindowTextLength.Call(h)
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(h, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

func isWindowVisible(h uintptr) bool {
	ret, _, _ := procIsWindowVisible.Call(h)
	return ret != 0
}

func titleBarVisible(h uintptr) bool {
	info := titleBarInfo{cbSize: uint32(unsafe.Sizeof(titleBarInfo{}))}
	ret, _, _ := procGetTitleBarInfo.Call(h, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return false
	}
	return info.rgstate[0]&stateSystemInvisible == 0
}

func exStyle(h uintptr) uint32 {
	idx := gwlExStyle
	ret, _, _ := procGetWindowLongW.Call(h, uintptr(idx))
	return uint32(ret)
}

func setForeground(h uintptr) error {
	ret, _, err := procSetForegroundWindow.Call(h)
	if ret != 0 {
		return nil
	}
	if err == syscall.Errno(0) {
		return errors.New("SetForegroundWindow failed")
	}
	return fmt.Errorf("SetForegroundWindow: %w", err)
}
