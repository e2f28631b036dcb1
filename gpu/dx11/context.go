// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

import (
	"syscall"
	"unsafe"
)

func (c *ID3D11DeviceContext4) Release() uint32 {
	ret, _, _ := syscall.Syscall(c.vtbl.Release, 1, ptr(unsafe.Pointer(c)), 0, 0)
	return uint32(ret)
}

// CopySubresourceRegion copies the full extent of src into dst at
// (0,0,0); box is always nil since ring textures are always copied
// whole (spec §4.7's per-layer copy).
func (c *ID3D11DeviceContext4) CopySubresourceRegion(dst *ID3D11Texture2D, src *ID3D11Texture2D) {
	syscall.Syscall9(
		c.vtbl.CopySubresourceRegion, 9,
		ptr(unsafe.Pointer(c)),
		ptr(unsafe.Pointer(dst)), 0, 0, 0, 0,
		ptr(unsafe.Pointer(src)), 0, 0,
	)
}

func (c *ID3D11DeviceContext4) Flush() {
	syscall.Syscall(c.vtbl.Flush, 1, ptr(unsafe.Pointer(c)), 0, 0)
}

// Signal submits a device-side fence signal, retired once all prior
// commands on this context complete (spec §4.6 step 4: "Signal the
// fence to sequence_number").
func (c *ID3D11DeviceContext4) Signal(fence *ID3D11Fence, value uint64) error {
	ret, _, _ := syscall.Syscall(
		c.vtbl.Signal, 3,
		ptr(unsafe.Pointer(c)), ptr(unsafe.Pointer(fence)), uintptr(value),
	)
	if !succeeded(ret) {
		return HRESULTError(ret)
	}
	return nil
}

// Wait blocks subsequent commands on this context until fence reaches
// value, device-side (spec §4.5: "consumer issues a device-side
// Wait(fence, sequence_number)").
func (c *ID3D11DeviceContext4) Wait(fence *ID3D11Fence, value uint64) error {
	ret, _, _ := syscall.Syscall(
		c.vtbl.Wait, 3,
		ptr(unsafe.Pointer(c)), ptr(unsafe.Pointer(fence)), uintptr(value),
	)
	if !succeeded(ret) {
		return HRESULTError(ret)
	}
	return nil
}
