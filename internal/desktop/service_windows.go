//go:build windows

package desktop

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sys/windows"
)

// VirtualDesktopAccessor.dll ships next to the executable. Its functions
// return a negative value on failure.
var (
	vda = windows.NewLazyDLL("VirtualDesktopAccessor.dll")

	procGoToDesktopNumber       = vda.NewProc("GoToDesktopNumber")
	procCreateDesktop           = vda.NewProc("CreateDesktop")
	procGetDesktopCount         = vda.NewProc("GetDesktopCount")
	procGetCurrentDesktopNumber = vda.NewProc("GetCurrentDesktopNumber")
)

// WindowsService controls desktops through VirtualDesktopAccessor.dll.
type WindowsService struct {
	PollInterval time.Duration
}

// NewService loads the desktop accessor. When it cannot be loaded the
// returned service is Unsupported and the error wraps ErrUnsupported.
func NewService() (Service, error) {
	if err := vda.Load(); err != nil {
		return Unsupported{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	log.Printf("Desktop service: loaded %s", vda.Name)
	return &WindowsService{PollInterval: DefaultPollInterval}, nil
}

func call(proc *windows.LazyProc, args ...uintptr) (int, error) {
	ret, _, _ := proc.Call(args...)
	n := int(int32(ret))
	if n < 0 {
		return n, fmt.Errorf("%s returned %d", proc.Name, n)
	}
	return n, nil
}

func (s *WindowsService) Switch(index int) error {
	count, err := s.Count()
	if err != nil {
		return err
	}
	if index >= count {
		return fmt.Errorf("desktop %d does not exist (%d desktops)", index+1, count)
	}
	_, err = call(procGoToDesktopNumber, uintptr(index))
	return err
}

func (s *WindowsService) Create() error {
	_, err := call(procCreateDesktop)
	return err
}

func (s *WindowsService) Count() (int, error) {
	return call(procGetDesktopCount)
}

func (s *WindowsService) Current() (int, error) {
	return call(procGetCurrentDesktopNumber)
}

func (s *WindowsService) Subscribe(ctx context.Context) (<-chan Change, error) {
	if _, err := s.Current(); err != nil {
		return nil, fmt.Errorf("read current desktop: %w", err)
	}
	return Poll(ctx, s.PollInterval, s.Current), nil
}

// FocusRecent focuses the topmost ordinary window on the current desktop.
func (s *WindowsService) FocusRecent(excludeTitle string) error {
	wins, err := topLevelWindows()
	if err != nil {
		return err
	}
	w, ok := SelectFocusTarget(wins, excludeTitle)
	if !ok {
		return nil
	}
	return setForeground(w.Handle)
}

var (
	_ Service = (*WindowsService)(nil)
	_ Focuser = (*WindowsService)(nil)
)
