// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

import (
	"syscall"
	"unsafe"
)

func (f *ID3D11Fence) Release() uint32 {
	ret, _, _ := syscall.Syscall(f.vtbl.Release, 1, ptr(unsafe.Pointer(f)), 0, 0)
	return uint32(ret)
}

// CreateSharedHandle creates an NT handle for this fence (nil security
// attributes, so the handle is not inheritable); the producer stores the returned value verbatim in the
// shared header for consumers to duplicate via DuplicateHandle (spec
// §4.5, §4.2's Header.fence_handle field).
func (f *ID3D11Fence) CreateSharedHandle(name *uint16) (uintptr, error) {
	const genericAll = 0x10000000
	var handle uintptr
	ret, _, _ := syscall.Syscall6(
		f.vtbl.CreateSharedHandle, 5,
		ptr(unsafe.Pointer(f)), 0, genericAll, ptr(unsafe.Pointer(name)),
		ptr(unsafe.Pointer(&handle)),
		0,
	)
	if !succeeded(ret) {
		return 0, HRESULTError(ret)
	}
	return handle, nil
}

func (f *ID3D11Fence) GetCompletedValue() uint64 {
	ret, _, _ := syscall.Syscall(f.vtbl.GetCompletedValue, 1, ptr(unsafe.Pointer(f)), 0, 0)
	return uint64(ret)
}
