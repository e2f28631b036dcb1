// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package shm

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// winMutex wraps a named Win32 mutex, the real backend for the protocol
// described in spec §4.3.
type winMutex struct {
	handle windows.Handle
}

// newPlatformMutex creates (or opens, if it already exists) the named
// mutex used to guard the shared control region.
func newPlatformMutex(name string) (platformMutex, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("shm: encode mutex name: %w", err)
	}
	h, err := windows.CreateMutex(nil, false, namePtr)
	if err != nil {
		return nil, fmt.Errorf("shm: CreateMutex(%q): %w", name, err)
	}
	return &winMutex{handle: h}, nil
}

func (m *winMutex) waitAcquire() (abandoned bool, err error) {
	result, err := windows.WaitForSingleObject(m.handle, windows.INFINITE)
	switch result {
	case windows.WAIT_OBJECT_0:
		return false, nil
	case windows.WAIT_ABANDONED:
		return true, nil
	default:
		return false, fmt.Errorf("WaitForSingleObject: unexpected result %#x: %w", result, err)
	}
}

func (m *winMutex) tryAcquire() (ok, abandoned bool, err error) {
	result, waitErr := windows.WaitForSingleObject(m.handle, 0)
	switch result {
	case windows.WAIT_OBJECT_0:
		return true, false, nil
	case windows.WAIT_ABANDONED:
		return true, true, nil
	case uint32(windows.WAIT_TIMEOUT):
		return false, false, nil
	default:
		return false, false, fmt.Errorf("WaitForSingleObject: unexpected result %#x: %w", result, waitErr)
	}
}

func (m *winMutex) release() error {
	if err := windows.ReleaseMutex(m.handle); err != nil {
		return fmt.Errorf("ReleaseMutex: %w", err)
	}
	return nil
}

func (m *winMutex) close() error {
	return windows.CloseHandle(m.handle)
}
