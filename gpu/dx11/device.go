// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

import (
	"syscall"
	"unsafe"
)

func (d *ID3D11Device) QueryInterface(iid *GUID) (unsafe.Pointer, error) {
	var out unsafe.Pointer
	ret, _, _ := syscall.Syscall(
		d.vtbl.QueryInterface, 3,
		ptr(unsafe.Pointer(d)), ptr(unsafe.Pointer(iid)), ptr(unsafe.Pointer(&out)),
	)
	if !succeeded(ret) {
		return nil, HRESULTError(ret)
	}
	return out, nil
}

func (d *ID3D11Device) AddRef() uint32 {
	ret, _, _ := syscall.Syscall(d.vtbl.AddRef, 1, ptr(unsafe.Pointer(d)), 0, 0)
	return uint32(ret)
}

func (d *ID3D11Device) Release() uint32 {
	ret, _, _ := syscall.Syscall(d.vtbl.Release, 1, ptr(unsafe.Pointer(d)), 0, 0)
	return uint32(ret)
}

// CreateTexture2D allocates a ring texture shareable-by-name: callers
// must set D3D11_RESOURCE_MISC_SHARED_NTHANDLE in desc.MiscFlags
// (spec §4.4).
func (d *ID3D11Device) CreateTexture2D(desc *D3D11_TEXTURE2D_DESC) (*ID3D11Texture2D, error) {
	var tex *ID3D11Texture2D
	ret, _, _ := syscall.Syscall6(
		d.vtbl.CreateTexture2D, 4,
		ptr(unsafe.Pointer(d)), ptr(unsafe.Pointer(desc)), 0, ptr(unsafe.Pointer(&tex)),
		0, 0,
	)
	if !succeeded(ret) {
		return nil, HRESULTError(ret)
	}
	return tex, nil
}

// GetImmediateContext5 returns the device's immediate context, cast
// up to ID3D11DeviceContext4 (requested directly via
// GetImmediateContext1+QueryInterface in the real implementation;
// collapsed here since this backend never uses the plain
// ID3D11DeviceContext surface).
func (d *ID3D11Device) GetImmediateContext5() (*ID3D11DeviceContext4, error) {
	var ctx unsafe.Pointer
	syscall.Syscall(d.vtbl.GetImmediateContext, 2, ptr(unsafe.Pointer(d)), ptr(unsafe.Pointer(&ctx)), 0)
	if ctx == nil {
		return nil, HRESULTError(0x80004005) // E_FAIL
	}
	return (*ID3D11DeviceContext4)(ctx), nil
}

func (d *ID3D11Device) asDevice5() (*ID3D11Device5, error) {
	p, err := d.QueryInterface(&iidID3D11Device5)
	if err != nil {
		return nil, err
	}
	return (*ID3D11Device5)(p), nil
}

func (d *ID3D11Device) asDevice1() (*ID3D11Device1, error) {
	p, err := d.QueryInterface(&iidID3D11Device1)
	if err != nil {
		return nil, err
	}
	return (*ID3D11Device1)(p), nil
}

func (d *ID3D11Device) asDXGIDevice() (*IDXGIDevice, error) {
	p, err := d.QueryInterface(&iidIDXGIDevice)
	if err != nil {
		return nil, err
	}
	return (*IDXGIDevice)(p), nil
}

// OpenSharedResourceByName opens, by name, a texture shared with
// D3D11_RESOURCE_MISC_SHARED_NTHANDLE by another process (spec §4.4:
// consumers open ring textures by their deterministic name).
func (d1 *ID3D11Device1) OpenSharedResourceByName(name *uint16, access uint32) (*ID3D11Texture2D, error) {
	var tex *ID3D11Texture2D
	ret, _, _ := syscall.Syscall6(
		d1.vtbl.OpenSharedResourceByName, 5,
		ptr(unsafe.Pointer(d1)), ptr(unsafe.Pointer(name)), uintptr(access),
		ptr(unsafe.Pointer(&iidID3D11Texture2D)), ptr(unsafe.Pointer(&tex)),
		0,
	)
	if !succeeded(ret) {
		return nil, HRESULTError(ret)
	}
	return tex, nil
}

// CreateFence creates a new D3D11.4 timeline fence, the same role as
// the teacher's ID3D12Device.CreateFence.
func (d5 *ID3D11Device5) CreateFence(initialValue uint64, flags D3D11_FENCE_FLAG) (*ID3D11Fence, error) {
	var fence *ID3D11Fence
	ret, _, _ := syscall.Syscall6(
		d5.vtbl.CreateFence, 5,
		ptr(unsafe.Pointer(d5)), uintptr(initialValue), uintptr(flags),
		ptr(unsafe.Pointer(&iidID3D11Fence)), ptr(unsafe.Pointer(&fence)),
		0,
	)
	if !succeeded(ret) {
		return nil, HRESULTError(ret)
	}
	return fence, nil
}

// OpenSharedFence opens a fence handle duplicated from the producer
// process via DuplicateHandle (spec §4.5).
func (d5 *ID3D11Device5) OpenSharedFence(handle uintptr) (*ID3D11Fence, error) {
	var fence *ID3D11Fence
	ret, _, _ := syscall.Syscall6(
		d5.vtbl.OpenSharedFence, 4,
		ptr(unsafe.Pointer(d5)), handle, ptr(unsafe.Pointer(&iidID3D11Fence)), ptr(unsafe.Pointer(&fence)),
		0, 0,
	)
	if !succeeded(ret) {
		return nil, HRESULTError(ret)
	}
	return fence, nil
}
