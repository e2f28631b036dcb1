// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

import (
	"fmt"
	"syscall"
	"unicode/utf16"
	"unsafe"
)

func (d *IDXGIDevice) Release() uint32 {
	ret, _, _ := syscall.Syscall(d.vtbl.Release, 1, ptr(unsafe.Pointer(d)), 0, 0)
	return uint32(ret)
}

func (d *IDXGIDevice) GetAdapter() (*IDXGIAdapter, error) {
	var a *IDXGIAdapter
	ret, _, _ := syscall.Syscall(d.vtbl.GetAdapter, 2, ptr(unsafe.Pointer(d)), ptr(unsafe.Pointer(&a)), 0)
	if !succeeded(ret) {
		return nil, HRESULTError(ret)
	}
	return a, nil
}

func (a *IDXGIAdapter) Release() uint32 {
	ret, _, _ := syscall.Syscall(a.vtbl.Release, 1, ptr(unsafe.Pointer(a)), 0, 0)
	return uint32(ret)
}

func (a *IDXGIAdapter) GetDesc() (DXGI_ADAPTER_DESC, error) {
	var desc DXGI_ADAPTER_DESC
	ret, _, _ := syscall.Syscall(a.vtbl.GetDesc, 2, ptr(unsafe.Pointer(a)), ptr(unsafe.Pointer(&desc)), 0)
	if !succeeded(ret) {
		return desc, HRESULTError(ret)
	}
	return desc, nil
}

// describeAdapter renders the adapter description that Device.Describe
// returns, which the writer and reader include in their attach
// diagnostics (the adapter log SPEC_FULL.md §4 recovers from the
// original implementation's SingleBufferedReader::InitDXResources).
func describeAdapter(device *ID3D11Device) string {
	dxgiDevice, err := device.asDXGIDevice()
	if err != nil {
		return fmt.Sprintf("<adapter unavailable: %v>", err)
	}
	defer dxgiDevice.Release()

	adapter, err := dxgiDevice.GetAdapter()
	if err != nil {
		return fmt.Sprintf("<adapter unavailable: %v>", err)
	}
	defer adapter.Release()

	desc, err := adapter.GetDesc()
	if err != nil {
		return fmt.Sprintf("<adapter description unavailable: %v>", err)
	}
	return utf16ToString(desc.Description[:])
}

func utf16ToString(s []uint16) string {
	n := 0
	for n < len(s) && s[n] != 0 {
		n++
	}
	return string(utf16.Decode(s[:n]))
}
