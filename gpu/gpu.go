// Package gpu defines the minimal GPU surface the shared-frame
// transport needs from a caller-supplied device: creating and sharing
// textures by name, and a timeline fence to order writes and reads
// without tearing or CPU polling (spec §4.5, §6: "A GPU device and
// immediate context on both sides" is a collaborator-facing interface
// consumed by the core).
//
// This is deliberately not a general-purpose graphics API: no
// pipelines, no shaders, no draw calls. Composing UI layers onto a
// texture is the producer's renderer, supplied out of band as a
// callback (spec §6); this package only covers what the transport
// itself needs to hand that rendered texture to another process.
package gpu

import (
	"fmt"
	"time"
)

// Texture is an opaque GPU texture resource.
type Texture interface {
	// Width and Height report the texture's fixed dimensions.
	Width() uint32
	Height() uint32
}

// Fence is a monotonic GPU timeline semaphore. A single Fence is
// created by the producer and shared with every consumer by handle
// duplication (spec §4.5); there is exactly one Fence per producer
// session.
type Fence interface {
	Destroy()
}

// Device is the interface a caller must implement (or obtain from
// package gpu/sim or gpu/dx11) to drive the transport. Device is safe
// for concurrent use only to the extent the underlying graphics API
// is; the transport itself never calls Device methods concurrently
// with themselves from more than one goroutine per process role
// (single producer thread, one reader per consumer process).
type Device interface {
	// CreateTexture allocates a texture with the ring's fixed
	// dimensions and pixel format, shareable by name (spec §4.4).
	CreateTexture() (Texture, error)

	// OpenSharedTexture opens, by name, a texture created by
	// CreateTexture in another process (or this one). It returns
	// ErrTextureNotFound if the name is not yet visible, which callers
	// must treat as transient (spec §7: "Texture open failure: Reset
	// the affected ring slot; try again next frame").
	OpenSharedTexture(name string) (Texture, error)

	// DestroyTexture releases a texture obtained from CreateTexture or
	// OpenSharedTexture.
	DestroyTexture(Texture)

	// CopySubresource copies the full extent of src into dst. Both
	// must have identical dimensions and pixel format.
	CopySubresource(dst, src Texture) error

	// Flush ensures all copy commands issued so far have been
	// submitted to the GPU (spec §4.7: "flushes" after the per-layer
	// copies, before marking a Snapshot valid).
	Flush() error

	// CreateFence creates a new timeline fence, initial value 0.
	CreateFence() (Fence, error)

	// DestroyFence releases a fence obtained from CreateFence or
	// ImportFence.
	DestroyFence(Fence)

	// ExportFenceHandle returns a process-local handle value for f,
	// suitable for storing verbatim in the shared header (spec §4.5,
	// §6: "the producer stores its local handle value verbatim in the
	// header along with its PID"). Only meaningful on the producer's
	// device.
	ExportFenceHandle(f Fence) (uintptr, error)

	// ImportFence duplicates a fence handle exported by the producer
	// (identified by producerPID) and opens it on this device (spec
	// §4.5: "open the producer process with DUP-handle rights,
	// duplicate the handle into their own process, open the fence on
	// their own device"). Only meaningful on a consumer's device.
	ImportFence(producerPID uint32, handle uintptr) (Fence, error)

	// Signal submits a device-side signal of f to value. The producer
	// calls this once per commit, after rendering and before
	// unlocking the mutex (spec §4.6's commit protocol step 4).
	Signal(f Fence, value uint64) error

	// Wait blocks the calling goroutine until f reaches value or
	// timeout elapses, returning false on timeout. The consumer calls
	// this once per read, before copying pixels out of the shared
	// texture (spec §4.5: "consumer issues a device-side Wait(fence,
	// sequence_number) on its context before the copy").
	Wait(f Fence, value uint64, timeout time.Duration) (bool, error)

	// Describe returns a short, human-readable description of the
	// underlying adapter/device, used only for diagnostics (see
	// SPEC_FULL.md §4, "Adapter-description diagnostic log").
	Describe() string
}

// ErrTextureNotFound is returned by Device.OpenSharedTexture when the
// named texture is not yet visible to this process.
var ErrTextureNotFound = fmt.Errorf("gpu: shared texture not found")

// Sharer is an optional capability a Device may implement: publishing
// a texture created by CreateTexture under name, so a consumer's
// OpenSharedTexture(name) can find it. Real OS-backed Devices (dx11)
// need an explicit publish step; gpu/sim's textures are already
// visible process-wide once registered, but implements Sharer too so
// callers never need to special-case backends.
type Sharer interface {
	ShareTexture(t Texture, name string) error
}
