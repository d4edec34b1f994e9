//go:build windows

package singleinstance

import (
	"errors"
	"strings"
	"testing"
)

func TestTryLock(t *testing.T) {
	name := `Local\BinkyBox-test-lock`

	first, err := TryLock(name)
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	if _, err := TryLock(name); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second TryLock() error = %v, want ErrAlreadyRunning", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}

	again, err := TryLock(name)
	if err != nil {
		t.Fatalf("TryLock() after release error = %v", err)
	}
	again.Release()
}

func TestTryLockRejectsEmptyName(t *testing.T) {
	if _, err := TryLock(""); err == nil {
		t.Fatal("TryLock(\"\") succeeded")
	}
}

func TestDefaultMutexName(t *testing.T) {
	t.Setenv("USERNAME", "unit user")
	if got := DefaultMutexName(); got != `Local\BinkyBox-unit_user` {
		t.Errorf("DefaultMutexName() = %q", got)
	}
	if !strings.HasPrefix(DefaultMutexName(), `Local\`) {
		t.Error("mutex name is not session-local")
	}
}
