// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

import (
	"syscall"
	"unsafe"
)

func (t *ID3D11Texture2D) Release() uint32 {
	ret, _, _ := syscall.Syscall(t.vtbl.Release, 1, ptr(unsafe.Pointer(t)), 0, 0)
	return uint32(ret)
}

func (t *ID3D11Texture2D) GetDesc() D3D11_TEXTURE2D_DESC {
	var desc D3D11_TEXTURE2D_DESC
	syscall.Syscall(t.vtbl.GetDesc, 2, ptr(unsafe.Pointer(t)), ptr(unsafe.Pointer(&desc)), 0)
	return desc
}

// asResource1 is used by the producer to mint the by-name shared
// handle a consumer opens with ID3D11Device1.OpenSharedResourceByName
// (spec §4.4).
func (t *ID3D11Texture2D) asResource1() (*IDXGIResource1, error) {
	var out unsafe.Pointer
	ret, _, _ := syscall.Syscall(
		t.vtbl.QueryInterface, 3,
		ptr(unsafe.Pointer(t)), ptr(unsafe.Pointer(&iidIDXGIResource1)), ptr(unsafe.Pointer(&out)),
	)
	if !succeeded(ret) {
		return nil, HRESULTError(ret)
	}
	return (*IDXGIResource1)(out), nil
}

func (r *IDXGIResource1) CreateSharedHandle(name *uint16) (uintptr, error) {
	const genericAll = 0x10000000
	var handle uintptr
	ret, _, _ := syscall.Syscall6(
		r.vtbl.CreateSharedHandle, 5,
		ptr(unsafe.Pointer(r)), 0, genericAll, ptr(unsafe.Pointer(name)),
		ptr(unsafe.Pointer(&handle)),
		0,
	)
	if !succeeded(ret) {
		return 0, HRESULTError(ret)
	}
	return handle, nil
}
