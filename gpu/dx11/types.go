// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

// D3D_DRIVER_TYPE selects hardware vs. software rendering.
type D3D_DRIVER_TYPE uint32

const (
	D3D_DRIVER_TYPE_UNKNOWN D3D_DRIVER_TYPE = iota
	D3D_DRIVER_TYPE_HARDWARE
)

// D3D_FEATURE_LEVEL identifies a D3D feature set.
type D3D_FEATURE_LEVEL uint32

const (
	D3D_FEATURE_LEVEL_11_0 D3D_FEATURE_LEVEL = 0xb000
	D3D_FEATURE_LEVEL_11_1 D3D_FEATURE_LEVEL = 0xb100
)

// D3D11_CREATE_DEVICE_FLAG controls device creation behavior.
type D3D11_CREATE_DEVICE_FLAG uint32

const (
	D3D11_CREATE_DEVICE_BGRA_SUPPORT D3D11_CREATE_DEVICE_FLAG = 0x20
)

// DXGI_FORMAT identifies a pixel format; only the one this protocol's
// ring textures use is named (spec §4.4: fixed-size BGRA8 textures).
type DXGI_FORMAT uint32

const (
	DXGI_FORMAT_B8G8R8A8_UNORM DXGI_FORMAT = 87
)

// DXGI_SAMPLE_DESC describes multisampling; ring textures never
// multisample.
type DXGI_SAMPLE_DESC struct {
	Count   uint32
	Quality uint32
}

// D3D11_USAGE controls CPU/GPU access patterns.
type D3D11_USAGE uint32

const (
	D3D11_USAGE_DEFAULT D3D11_USAGE = 0
)

// D3D11_BIND_FLAG controls how a resource may be bound to the
// pipeline.
type D3D11_BIND_FLAG uint32

const (
	D3D11_BIND_SHADER_RESOURCE D3D11_BIND_FLAG = 0x8
	D3D11_BIND_RENDER_TARGET  D3D11_BIND_FLAG = 0x20
)

// D3D11_RESOURCE_MISC_FLAG controls sharing behavior; SHARED_NTHANDLE
// is required for a texture to be openable by name from another
// process (spec §4.4).
type D3D11_RESOURCE_MISC_FLAG uint32

const (
	D3D11_RESOURCE_MISC_SHARED           D3D11_RESOURCE_MISC_FLAG = 0x2
	D3D11_RESOURCE_MISC_SHARED_NTHANDLE  D3D11_RESOURCE_MISC_FLAG = 0x800
)

// D3D11_TEXTURE2D_DESC describes a 2D texture.
type D3D11_TEXTURE2D_DESC struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         DXGI_FORMAT
	SampleDesc     DXGI_SAMPLE_DESC
	Usage          D3D11_USAGE
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

// D3D11_BOX describes a subresource copy region; unused (zero value)
// means "copy everything" for CopySubresourceRegion.
type D3D11_BOX struct {
	Left, Top, Front, Right, Bottom, Back uint32
}

// D3D11_FENCE_FLAG controls fence sharing.
type D3D11_FENCE_FLAG uint32

const (
	D3D11_FENCE_FLAG_SHARED D3D11_FENCE_FLAG = 0x1
)
