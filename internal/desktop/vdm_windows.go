//go:build windows

package desktop

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
)

var (
	clsidVirtualDesktopManager = ole.NewGUID("{AA509086-5CA9-4C25-8F95-589D3C07B48A}")
	iidIVirtualDesktopManager  = ole.NewGUID("{A5CD92FF-29BE-454C-8D04-D82879FB3F1B}")
)

const sFalse = 0x00000001

type iVirtualDesktopManagerVtbl struct {
	ole.IUnknownVtbl
	IsWindowOnCurrentVirtualDesktop uintptr
	GetWindowDesktopId              uintptr
	MoveWindowToDesktop             uintptr
}

// desktopManager wraps the documented IVirtualDesktopManager interface.
// It must be used and released on the OS thread that created it.
type desktopManager struct {
	unk    *ole.IUnknown
	uninit bool
}

func newDesktopManager() (*desktopManager, error) {
	uninit := true
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			// COM was initialized in another mode by someone else.
			uninit = false
		}
	}

	unk, err := ole.CreateInstance(clsidVirtualDesktopManager, iidIVirtualDesktopManager)
	if err != nil {
		if uninit {
			ole.CoUninitialize()
		}
		return nil, fmt.Errorf("create IVirtualDesktopManager: %w", err)
	}
	return &desktopManager{unk: unk, uninit: uninit}, nil
}

func (m *desktopManager) vtbl() *iVirtualDesktopManagerVtbl {
	return (*iVirtualDesktopManagerVtbl)(unsafe.Pointer(m.unk.RawVTable))
}

// IsWindowOnCurrentVirtualDesktop reports whether hwnd is shown on the
// active desktop.
func (m *desktopManager) IsWindowOnCurrentVirtualDesktop(hwnd uintptr) (bool, error) {
	var on int32
	hr, _, _ := syscall.SyscallN(m.vtbl().IsWindowOnCurrentVirtualDesktop,
		uintptr(unsafe.Pointer(m.unk)),
		hwnd,
		uintptr(unsafe.Pointer(&on)))
	if hr != 0 {
		return false, ole.NewError(hr)
	}
	return on != 0, nil
}

func (m *desktopManager) Release() {
	m.unk.Release()
	if m.uninit {
		ole.CoUninitialize()
	}
}
