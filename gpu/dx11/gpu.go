// Copyright 2025 The OpenKneeboard Authors
// SPDX-License-Identifier: MIT

//go:build windows

package dx11

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/windows"

	"github.com/Cornflakes-code/OpenKneeboard/gpu"
)

func init() {
	gpu.RegisterBackend("dx11", func() (gpu.Device, error) {
		return New()
	})
}

// Texture wraps an ID3D11Texture2D as a gpu.Texture.
type Texture struct {
	tex           *ID3D11Texture2D
	width, height uint32
}

func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }

// Fence wraps an ID3D11Fence as a gpu.Fence.
type Fence struct {
	fence *ID3D11Fence
}

func (f *Fence) Destroy() { f.fence.Release() }

// Device implements gpu.Device against a real D3D11.4 adapter, the
// counterpart to gpu/sim.Device used for production OpenKneeboard
// runs (SPEC_FULL.md §2.4, §3).
type Device struct {
	device  *ID3D11Device
	device5 *ID3D11Device5
	device1 *ID3D11Device1
	ctx     *ID3D11DeviceContext4
	pid     uint32
}

// New creates a D3D11.4 device on the default hardware adapter.
func New() (*Device, error) {
	raw, err := createDevice()
	if err != nil {
		return nil, fmt.Errorf("dx11: create device: %w", err)
	}
	d5, err := raw.asDevice5()
	if err != nil {
		return nil, fmt.Errorf("dx11: device does not support ID3D11Device5 (needs D3D11.4, Windows 10): %w", err)
	}
	d1, err := raw.asDevice1()
	if err != nil {
		return nil, fmt.Errorf("dx11: device does not support ID3D11Device1: %w", err)
	}
	ctx, err := raw.GetImmediateContext5()
	if err != nil {
		return nil, fmt.Errorf("dx11: get immediate context: %w", err)
	}
	return &Device{
		device:  raw,
		device5: d5,
		device1: d1,
		ctx:     ctx,
		pid:     uint32(os.Getpid()),
	}, nil
}

func (d *Device) CreateTexture() (gpu.Texture, error) {
	const w, h = 2048, 2048
	desc := D3D11_TEXTURE2D_DESC{
		Width:      w,
		Height:     h,
		MipLevels:  1,
		ArraySize:  1,
		Format:     DXGI_FORMAT_B8G8R8A8_UNORM,
		SampleDesc: DXGI_SAMPLE_DESC{Count: 1},
		Usage:      D3D11_USAGE_DEFAULT,
		BindFlags:  uint32(D3D11_BIND_SHADER_RESOURCE) | uint32(D3D11_BIND_RENDER_TARGET),
		MiscFlags:  uint32(D3D11_RESOURCE_MISC_SHARED) | uint32(D3D11_RESOURCE_MISC_SHARED_NTHANDLE),
	}
	tex, err := d.device.CreateTexture2D(&desc)
	if err != nil {
		return nil, fmt.Errorf("dx11: CreateTexture2D: %w", err)
	}
	return &Texture{tex: tex, width: w, height: h}, nil
}

// ShareTexture publishes t under name via IDXGIResource1, so a
// consumer in another process can open it with OpenSharedTexture
// (spec §4.4). The core Writer calls this once per ring slot the
// first time it is created.
func (d *Device) ShareTexture(t gpu.Texture, name string) error {
	real, ok := t.(*Texture)
	if !ok {
		return fmt.Errorf("dx11: ShareTexture: not a dx11 texture")
	}
	res, err := real.tex.asResource1()
	if err != nil {
		return fmt.Errorf("dx11: QueryInterface IDXGIResource1: %w", err)
	}
	defer res.Release()

	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return fmt.Errorf("dx11: encode texture name: %w", err)
	}
	if _, err := res.CreateSharedHandle(namePtr); err != nil {
		return fmt.Errorf("dx11: CreateSharedHandle(%q): %w", name, err)
	}
	return nil
}

func (d *Device) OpenSharedTexture(name string) (gpu.Texture, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("dx11: encode texture name: %w", err)
	}
	const genericAll = 0x10000000
	tex, err := d.device1.OpenSharedResourceByName(namePtr, genericAll)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", gpu.ErrTextureNotFound, name, err)
	}
	desc := tex.GetDesc()
	return &Texture{tex: tex, width: desc.Width, height: desc.Height}, nil
}

func (d *Device) DestroyTexture(t gpu.Texture) {
	if real, ok := t.(*Texture); ok {
		real.tex.Release()
	}
}

func (d *Device) CopySubresource(dst, src gpu.Texture) error {
	dstT, ok := dst.(*Texture)
	if !ok {
		return fmt.Errorf("dx11: CopySubresource: dst is not a dx11 texture")
	}
	srcT, ok := src.(*Texture)
	if !ok {
		return fmt.Errorf("dx11: CopySubresource: src is not a dx11 texture")
	}
	d.ctx.CopySubresourceRegion(dstT.tex, srcT.tex)
	return nil
}

func (d *Device) Flush() error {
	d.ctx.Flush()
	return nil
}

func (d *Device) CreateFence() (gpu.Fence, error) {
	f, err := d.device5.CreateFence(0, D3D11_FENCE_FLAG_SHARED)
	if err != nil {
		return nil, fmt.Errorf("dx11: CreateFence: %w", err)
	}
	return &Fence{fence: f}, nil
}

func (d *Device) DestroyFence(f gpu.Fence) {
	if real, ok := f.(*Fence); ok {
		real.fence.Release()
	}
}

// ExportFenceHandle creates an unnamed, non-inheritable NT handle for
// the fence. Its raw value is what the producer
// stores verbatim in the shared header alongside its own PID (spec
// §4.5, §4.2).
func (d *Device) ExportFenceHandle(f gpu.Fence) (uintptr, error) {
	real, ok := f.(*Fence)
	if !ok {
		return 0, fmt.Errorf("dx11: ExportFenceHandle: not a dx11 fence")
	}
	h, err := real.fence.CreateSharedHandle(nil)
	if err != nil {
		return 0, fmt.Errorf("dx11: CreateSharedHandle: %w", err)
	}
	return h, nil
}

// ImportFence opens the producer process with PROCESS_DUP_HANDLE
// rights, duplicates its fence handle into this process, and opens
// the fence on this device (spec §4.5's cross-process handle-transfer
// sequence).
func (d *Device) ImportFence(producerPID uint32, handle uintptr) (gpu.Fence, error) {
	producer, err := windows.OpenProcess(windows.PROCESS_DUP_HANDLE, false, producerPID)
	if err != nil {
		return nil, fmt.Errorf("dx11: OpenProcess(%d, PROCESS_DUP_HANDLE): %w", producerPID, err)
	}
	defer windows.CloseHandle(producer)

	self := windows.CurrentProcess()
	var local windows.Handle
	err = windows.DuplicateHandle(
		producer, windows.Handle(handle),
		self, &local,
		0, false, windows.DUPLICATE_SAME_ACCESS,
	)
	if err != nil {
		return nil, fmt.Errorf("dx11: DuplicateHandle: %w", err)
	}
	defer windows.CloseHandle(local)

	f, err := d.device5.OpenSharedFence(uintptr(local))
	if err != nil {
		return nil, fmt.Errorf("dx11: OpenSharedFence: %w", err)
	}
	return &Fence{fence: f}, nil
}

func (d *Device) Signal(f gpu.Fence, value uint64) error {
	real, ok := f.(*Fence)
	if !ok {
		return fmt.Errorf("dx11: Signal: not a dx11 fence")
	}
	return d.ctx.Signal(real.fence, value)
}

// Wait issues a device-side wait and then polls GetCompletedValue
// with a short sleep, bounded by timeout, since D3D11 has no
// single-call "block the CPU until this fence reaches N" primitive
// outside of an OS event (spec §4.5 only requires no tearing and no
// busy-spin on the shared-memory side; this poll is local to the
// device-side wait setup, not a substitute for it).
func (d *Device) Wait(f gpu.Fence, value uint64, timeout time.Duration) (bool, error) {
	real, ok := f.(*Fence)
	if !ok {
		return false, fmt.Errorf("dx11: Wait: not a dx11 fence")
	}
	if err := d.ctx.Wait(real.fence, value); err != nil {
		return false, fmt.Errorf("dx11: context Wait: %w", err)
	}
	deadline := time.Now().Add(timeout)
	for real.fence.GetCompletedValue() < value {
		if time.Now().After(deadline) {
			return false, nil
		}
		time.Sleep(time.Millisecond)
	}
	return true, nil
}

func (d *Device) Describe() string {
	return fmt.Sprintf("dx11 device (pid=%d, adapter=%s)", d.pid, describeAdapter(d.device))
}
