// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package shm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// winRegion backs Region with a paging-file-backed named file mapping,
// exactly as spec §4.2 requires ("A named anonymous file mapping of
// exactly sizeof(Header) bytes backed by paging file").
type winRegion struct {
	fileMapping windows.Handle
	addr        uintptr
	size        int
}

func newPlatformRegion(name string, size int) (platformRegion, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("encode section name: %w", err)
	}

	h, err := windows.CreateFileMapping(
		windows.InvalidHandle,
		nil,
		windows.PAGE_READWRITE,
		0,
		uint32(size),
		namePtr,
	)
	if err != nil {
		return nil, fmt.Errorf("CreateFileMapping(%q): %w", name, err)
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(h)
		return nil, fmt.Errorf("MapViewOfFile(%q): %w", name, err)
	}

	return &winRegion{fileMapping: h, addr: addr, size: size}, nil
}

func (r *winRegion) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(r.addr)), r.size)
}

func (r *winRegion) close() error {
	if err := windows.UnmapViewOfFile(r.addr); err != nil {
		windows.CloseHandle(r.fileMapping)
		return fmt.Errorf("UnmapViewOfFile: %w", err)
	}
	return windows.CloseHandle(r.fileMapping)
}
