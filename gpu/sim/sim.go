// Package sim is an in-process, cross-platform Device implementation
// used for testing the shared-frame transport without a real GPU or a
// second OS process. It plays the same role as the teacher's hal/noop
// backend: higher layers (shm.Writer, shm.Reader) are exercised
// end-to-end through it so their protocol logic has real test coverage
// even where the real gpu/dx11 backend cannot run (e.g. CI on Linux).
//
// All shared textures and fences live in process-wide registries keyed
// by name/PID+handle, so multiple sim.Device values in the same test
// binary can stand in for a producer process and several consumer
// processes.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/Cornflakes-code/OpenKneeboard/gpu"
)

func init() {
	gpu.RegisterBackend("sim", func() (gpu.Device, error) {
		return New(), nil
	})
}

// Texture is a sim-backed texture: just a pixel buffer, so tests can
// assert on copied content.
type Texture struct {
	width, height uint32
	Pixels        []byte // BGRA8, premultiplied, width*height*4 bytes
}

func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }

// Fence is a sim-backed timeline fence: a monotonically increasing
// counter guarded by a condition variable, the same shape as the
// teacher's Vulkan timeline-semaphore fence (hal/vulkan/fence.go)
// generalized away from any real GPU API.
type Fence struct {
	mu        sync.Mutex
	cond      *sync.Cond
	signaled  uint64
	destroyed bool
}

func newFence() *Fence {
	f := &Fence{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *Fence) Destroy() {
	f.mu.Lock()
	f.destroyed = true
	f.mu.Unlock()
	f.cond.Broadcast()
}

func (f *Fence) signal(value uint64) {
	f.mu.Lock()
	if value > f.signaled {
		f.signaled = value
	}
	f.mu.Unlock()
	f.cond.Broadcast()
}

// wait blocks until the fence reaches value or timeout elapses.
func (f *Fence) wait(value uint64, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.signaled < value && !f.destroyed {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return f.signaled >= value
		}
		timer := time.AfterFunc(remaining, f.cond.Broadcast)
		f.cond.Wait()
		timer.Stop()
	}
	return f.signaled >= value
}

// fenceHandle is the process-local "handle value" sim hands out for a
// fence, standing in for the NT handle value the real producer would
// store in the header.
type fenceHandle struct {
	producerPID uint32
	fence       *Fence
}

var (
	registryMu     sync.Mutex
	namedTextures  = make(map[string]*Texture)
	nextFenceH     uintptr = 1
	exportedFences         = make(map[uintptr]*fenceHandle)
)

// Device is the sim backend's Device implementation.
type Device struct {
	pid uint32
}

var nextPID uint32 = 1000

// New returns a new sim Device, assigned a synthetic PID distinct from
// every other sim Device created in this process, so handle-duplication
// (ImportFence) behaves like it would across real processes.
func New() *Device {
	registryMu.Lock()
	pid := nextPID
	nextPID++
	registryMu.Unlock()
	return &Device{pid: pid}
}

func (d *Device) PID() uint32 { return d.pid }

func (d *Device) CreateTexture() (gpu.Texture, error) {
	const w, h = 2048, 2048
	return &Texture{width: w, height: h, Pixels: make([]byte, w*h*4)}, nil
}

// RegisterSharedTexture makes t visible to OpenSharedTexture under name,
// standing in for the real backend's by-name NT-shared resource
// creation.
func RegisterSharedTexture(name string, t *Texture) {
	registryMu.Lock()
	defer registryMu.Unlock()
	namedTextures[name] = t
}

// ShareTexture implements gpu.Sharer by registering t under name, the
// sim equivalent of dx11's IDXGIResource1.CreateSharedHandle.
func (d *Device) ShareTexture(t gpu.Texture, name string) error {
	real, ok := t.(*Texture)
	if !ok {
		return fmt.Errorf("sim: ShareTexture: not a sim texture")
	}
	RegisterSharedTexture(name, real)
	return nil
}

func (d *Device) OpenSharedTexture(name string) (gpu.Texture, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	t, ok := namedTextures[name]
	if !ok {
		return nil, gpu.ErrTextureNotFound
	}
	return t, nil
}

func (d *Device) DestroyTexture(gpu.Texture) {}

func (d *Device) CopySubresource(dst, src gpu.Texture) error {
	dstT, ok := dst.(*Texture)
	if !ok {
		return fmt.Errorf("sim: CopySubresource: dst is not a sim texture")
	}
	srcT, ok := src.(*Texture)
	if !ok {
		return fmt.Errorf("sim: CopySubresource: src is not a sim texture")
	}
	if dstT.width != srcT.width || dstT.height != srcT.height {
		return fmt.Errorf("sim: CopySubresource: size mismatch %dx%d vs %dx%d", dstT.width, dstT.height, srcT.width, srcT.height)
	}
	copy(dstT.Pixels, srcT.Pixels)
	return nil
}

func (d *Device) Flush() error { return nil }

func (d *Device) CreateFence() (gpu.Fence, error) {
	return newFence(), nil
}

func (d *Device) DestroyFence(f gpu.Fence) {
	if real, ok := f.(*Fence); ok {
		real.Destroy()
	}
}

func (d *Device) ExportFenceHandle(f gpu.Fence) (uintptr, error) {
	real, ok := f.(*Fence)
	if !ok {
		return 0, fmt.Errorf("sim: ExportFenceHandle: not a sim fence")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	h := nextFenceH
	nextFenceH++
	exportedFences[h] = &fenceHandle{producerPID: d.pid, fence: real}
	return h, nil
}

func (d *Device) ImportFence(producerPID uint32, handle uintptr) (gpu.Fence, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	entry, ok := exportedFences[handle]
	if !ok || entry.producerPID != producerPID {
		return nil, fmt.Errorf("sim: ImportFence: no such handle %d for pid %d", handle, producerPID)
	}
	return entry.fence, nil
}

func (d *Device) Signal(f gpu.Fence, value uint64) error {
	real, ok := f.(*Fence)
	if !ok {
		return fmt.Errorf("sim: Signal: not a sim fence")
	}
	real.signal(value)
	return nil
}

func (d *Device) Wait(f gpu.Fence, value uint64, timeout time.Duration) (bool, error) {
	real, ok := f.(*Fence)
	if !ok {
		return false, fmt.Errorf("sim: Wait: not a sim fence")
	}
	return real.wait(value, timeout), nil
}

func (d *Device) Describe() string {
	return fmt.Sprintf("sim device (pid=%d)", d.pid)
}
