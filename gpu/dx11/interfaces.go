// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

// The three IUnknown slots shared by every interface below are
// declared inline at the head of each vtable struct rather than
// through a shared embedded type, matching the teacher's d3d12
// interfaces.go layout.

// ID3D11Device represents a virtual adapter, same role as
// ID3D12Device in the teacher's package but for the D3D11 API this
// protocol actually targets (spec §6: "Direct3D 11").
type ID3D11Device struct {
	vtbl *id3d11DeviceVtbl
}

type id3d11DeviceVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	CreateBuffer                         uintptr
	CreateTexture1D                      uintptr
	CreateTexture2D                      uintptr
	CreateTexture3D                      uintptr
	CreateShaderResourceView             uintptr
	CreateUnorderedAccessView            uintptr
	CreateRenderTargetView               uintptr
	CreateDepthStencilView               uintptr
	CreateInputLayout                    uintptr
	CreateVertexShader                   uintptr
	CreateGeometryShader                 uintptr
	CreateGeometryShaderWithStreamOutput uintptr
	CreatePixelShader                    uintptr
	CreateHullShader                     uintptr
	CreateDomainShader                   uintptr
	CreateComputeShader                  uintptr
	CreateClassLinkage                   uintptr
	CreateBlendState                     uintptr
	CreateDepthStencilState              uintptr
	CreateRasterizerState                uintptr
	CreateSamplerState                   uintptr
	CreateQuery                          uintptr
	CreatePredicate                      uintptr
	CreateCounter                        uintptr
	CreateDeferredContext                uintptr
	OpenSharedResource                   uintptr
	CheckFormatSupport                   uintptr
	CheckMultisampleQualityLevels        uintptr
	CheckCounterInfo                     uintptr
	CheckCounter                         uintptr
	CheckFeatureSupport                  uintptr
	GetPrivateData                       uintptr
	SetPrivateData                       uintptr
	SetPrivateDataInterface              uintptr
	GetFeatureLevel                      uintptr
	GetCreationFlags                     uintptr
	GetDeviceRemovedReason               uintptr
	GetImmediateContext                  uintptr
	SetExceptionMode                     uintptr
	GetExceptionMode                     uintptr
}

// ID3D11Device1 adds OpenSharedResourceByName, which this backend
// calls to open ring textures by name; its vtable embeds the full
// ID3D11Device vtable followed by the ID3D11Device1 methods.
type ID3D11Device1 struct {
	vtbl *id3d11Device1Vtbl
}

type id3d11Device1Vtbl struct {
	id3d11DeviceVtbl

	GetImmediateContext1     uintptr
	CreateDeferredContext1   uintptr
	CreateBlendState1        uintptr
	CreateRasterizerState1   uintptr
	CreateDeviceContextState uintptr
	OpenSharedResource1      uintptr
	OpenSharedResourceByName uintptr
}

// ID3D11Device5 is the interface that exposes CreateFence/OpenSharedFence,
// the D3D11.4 cross-process timeline fence this protocol relies on
// (spec §4.5).
type ID3D11Device5 struct {
	vtbl *id3d11Device5Vtbl
}

type id3d11Device5Vtbl struct {
	id3d11Device1Vtbl

	OpenSharedFence     uintptr
	CreateDeferredContext3 uintptr
	CreateFence         uintptr
}

// ID3D11DeviceContext4 exposes the Signal/Wait pair against an
// ID3D11Fence (spec §4.5: device-side Signal/Wait, no CPU polling).
type ID3D11DeviceContext4 struct {
	vtbl *id3d11DeviceContext4Vtbl
}

type id3d11DeviceContext4Vtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	// Most of ID3D11DeviceContext's large vtable (draw/dispatch/state
	// setters) is irrelevant to this backend, which only ever issues
	// CopySubresourceRegion, Flush, Signal and Wait against a context;
	// the slots are still declared up to those four so the offsets
	// line up with the real interface.
	_reservedContextMethods [43]uintptr

	CopySubresourceRegion uintptr

	_reservedContextMethods2 [64]uintptr

	Flush uintptr

	_reservedContextMethods3 [35]uintptr

	Signal uintptr
	Wait   uintptr
}

// ID3D11Texture2D is a 2D texture resource.
type ID3D11Texture2D struct {
	vtbl *id3d11Texture2DVtbl
}

type id3d11Texture2DVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetDevice               uintptr

	GetType                   uintptr
	SetEvictionPriority       uintptr
	GetEvictionPriority       uintptr
	GetDesc                   uintptr
}

// ID3D11Fence is a D3D11.4 cross-process timeline fence.
type ID3D11Fence struct {
	vtbl *id3d11FenceVtbl
}

type id3d11FenceVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetDevice               uintptr

	CreateSharedHandle   uintptr
	GetCompletedValue    uintptr
	SetEventOnCompletion uintptr
}

// IDXGIDevice exposes the adapter behind a D3D11 device, used to
// build the Describe() diagnostic string (SPEC_FULL.md §4, "adapter
// description log").
type IDXGIDevice struct {
	vtbl *idxgiDeviceVtbl
}

type idxgiDeviceVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetParent               uintptr

	GetAdapter             uintptr
	CreateSurface          uintptr
	QueryResourceResidency uintptr
	SetGPUThreadPriority   uintptr
	GetGPUThreadPriority   uintptr
}

// IDXGIAdapter describes a physical or virtual graphics adapter.
type IDXGIAdapter struct {
	vtbl *idxgiAdapterVtbl
}

type idxgiAdapterVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetParent               uintptr

	EnumOutputs           uintptr
	GetDesc               uintptr
	CheckInterfaceSupport uintptr
}

// DXGI_ADAPTER_DESC mirrors the Win32 struct byte-for-byte; only the
// Description field is used here.
type DXGI_ADAPTER_DESC struct {
	Description           [128]uint16
	VendorId              uint32
	DeviceId              uint32
	SubSysId              uint32
	Revision              uint32
	DedicatedVideoMemory  uintptr
	DedicatedSystemMemory uintptr
	SharedSystemMemory    uintptr
	AdapterLuid           int64
}

// IDXGIResource1 exposes CreateSharedHandle with a name, the way the
// producer publishes a ring texture for consumers to open by name
// (spec §4.4).
type IDXGIResource1 struct {
	vtbl *idxgiResource1Vtbl
}

type idxgiResource1Vtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr

	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetParent               uintptr

	GetDevice     uintptr
	GetSharedHandle uintptr
	GetUsage        uintptr
	SetEvictionPriority uintptr
	GetEvictionPriority uintptr

	CreateSubresourceSurface uintptr
	CreateSharedHandle       uintptr
}
