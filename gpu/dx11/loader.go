// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"
)

var (
	d3d11Lib     *lib
	d3d11LibOnce sync.Once
	d3d11LibErr  error
)

// lib binds the one DLL entry point this backend needs, the same
// LazyDLL/LazyProc shape as d3d12.D3D12Lib.
type lib struct {
	d3d11CreateDevice *syscall.LazyProc
}

func loadLib() (*lib, error) {
	d3d11LibOnce.Do(func() {
		dll := syscall.NewLazyDLL("d3d11.dll")
		if err := dll.Load(); err != nil {
			d3d11LibErr = fmt.Errorf("load d3d11.dll: %w", err)
			return
		}
		d3d11Lib = &lib{d3d11CreateDevice: dll.NewProc("D3D11CreateDevice")}
	})
	return d3d11Lib, d3d11LibErr
}

// createDevice calls D3D11CreateDevice with the default adapter and
// hardware driver type, requesting BGRA support (needed to share
// textures with a D3D9-era or Direct2D consumer, per the original
// implementation's SHM.cpp device setup).
func createDevice() (*ID3D11Device, error) {
	l, err := loadLib()
	if err != nil {
		return nil, err
	}

	var device *ID3D11Device
	var featureLevel D3D_FEATURE_LEVEL
	levels := [2]D3D_FEATURE_LEVEL{D3D_FEATURE_LEVEL_11_1, D3D_FEATURE_LEVEL_11_0}

	ret, _, _ := l.d3d11CreateDevice.Call(
		0, // pAdapter
		uintptr(D3D_DRIVER_TYPE_HARDWARE),
		0, // Software
		uintptr(D3D11_CREATE_DEVICE_BGRA_SUPPORT),
		uintptr(unsafe.Pointer(&levels[0])),
		uintptr(len(levels)),
		7, // D3D11_SDK_VERSION
		uintptr(unsafe.Pointer(&device)),
		uintptr(unsafe.Pointer(&featureLevel)),
		0, // ppImmediateContext, not requested here
	)
	if !succeeded(ret) {
		return nil, HRESULTError(ret)
	}
	return device, nil
}
