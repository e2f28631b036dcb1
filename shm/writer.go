package shm

import (
	"fmt"

	"github.com/Cornflakes-code/OpenKneeboard/diag"
	"github.com/Cornflakes-code/OpenKneeboard/gpu"
	"github.com/Cornflakes-code/OpenKneeboard/kind"
	"github.com/Cornflakes-code/OpenKneeboard/version"
)

// Writer is the producer side of the shared-frame transport (spec
// §4.6). A process owns exactly one Writer for its lifetime; creating
// a second Writer for the same version tuple from the same process is
// unsupported (the region's mutex makes it safe, but not useful).
type Writer struct {
	region  *Region
	device  gpu.Device
	tuple   version.Tuple
	session uint64
	pid     uint32

	fence       gpu.Fence
	fenceHandle uint64

	rings [MaxLayers]*textureRing

	sequenceNumber uint32
	valid          bool
}

// New attaches to (creating if necessary) the shared control region
// for tuple and initialises the header for a new producer session
// (spec §4.6: "new() → attaches, initialises header.").
func New(tuple version.Tuple, device gpu.Device, pid uint32) (*Writer, error) {
	region, err := OpenRegion(tuple)
	if err != nil {
		return nil, err
	}

	fence, err := device.CreateFence()
	if err != nil {
		region.Close()
		return nil, fmt.Errorf("shm: create fence: %w", err)
	}
	fenceHandle, err := device.ExportFenceHandle(fence)
	if err != nil {
		device.DestroyFence(fence)
		region.Close()
		return nil, fmt.Errorf("shm: export fence handle: %w", err)
	}

	session := NewSessionID(pid)

	w := &Writer{
		region:      region,
		device:      device,
		tuple:       tuple,
		session:     session,
		pid:         pid,
		fence:       fence,
		fenceHandle: uint64(fenceHandle),
	}
	for i := range w.rings {
		w.rings[i] = newTextureRing(device, tuple, session, uint8(i))
	}

	w.region.Mutex().Lock()
	defer w.region.Mutex().Unlock()

	h := Header{SessionID: session, Flags: FeederAttached, FeederPID: pid, Fence: w.fenceHandle}
	copy(h.Magic[:], Magic)
	if err := w.region.WriteHeader(&h); err != nil {
		region.Close()
		return nil, fmt.Errorf("shm: initialise header: %w", err)
	}

	w.valid = true
	diag.Logger().Info("shm: writer attached", "session", session, "pid", pid, "adapter", device.Describe())
	return w, nil
}

// Lock blocks until the region's mutex is acquired.
func (w *Writer) Lock() (abandoned bool) { return w.region.Mutex().Lock() }

// TryLock attempts to acquire the region's mutex without blocking.
func (w *Writer) TryLock() (ok, abandoned bool) { return w.region.Mutex().TryLock() }

// Unlock releases the region's mutex.
func (w *Writer) Unlock() { w.region.Mutex().Unlock() }

// FenceHandle returns the process-local handle value for this
// writer's fence, the value callers pass to Update so it is stored
// verbatim in the header (spec §4.5, §4.6).
func (w *Writer) FenceHandle() uint64 { return w.fenceHandle }

// NextTextureIndex returns the ring slot the renderer should render
// into for the next commit (spec §4.4, §4.6: "(sequence_number + 1)
// mod N").
func (w *Writer) NextTextureIndex() uint32 {
	return (w.sequenceNumber + 1) % TextureCount
}

// NextSequenceNumber returns the sequence number the next commit will
// advertise, used to label the device-side fence signal (spec §4.6).
func (w *Writer) NextSequenceNumber() uint32 {
	return w.sequenceNumber + 1
}

// RenderTarget returns the texture the renderer should draw layer
// into for the upcoming commit, creating and publishing it by name on
// first use. Callers render into this texture before calling Update.
func (w *Writer) RenderTarget(layer uint8) (gpu.Texture, error) {
	if int(layer) >= MaxLayers {
		panic(errTooManyLayers)
	}
	return w.rings[layer].texture(w.NextSequenceNumber())
}

// Update commits a new frame: copies config, increments the sequence
// number, sets FeederAttached, and writes layer count, PID, fence
// handle and the layer array (spec §4.6). The caller must already
// hold the lock (normally via Lock/TryLock); Update panics if it does
// not, or if layers violates a precondition.
//
// The sequence number is a uint32 and wraps to 0 after 2^32-1; a wrap
// alone does not start a new session.
func (w *Writer) Update(config Config, layers []LayerConfig, fenceHandle uint64) {
	if !w.valid {
		panic(errUpdateInvalid)
	}
	if !w.region.Mutex().HaveLock() {
		panic(errUpdateNoLock)
	}
	if len(layers) > MaxLayers {
		panic(errTooManyLayers)
	}
	for _, l := range layers {
		if !l.IsValid() {
			panic(errZeroSizedImage)
		}
	}

	h, err := w.region.ReadHeader()
	if err != nil {
		panic("shm: " + err.Error())
	}

	copy(h.Magic[:], Magic)
	h.SessionID = w.session
	h.Config = config
	h.SequenceNumber++
	h.Flags |= FeederAttached
	h.FeederPID = w.pid
	h.Fence = fenceHandle
	h.LayerCount = uint8(len(layers))
	h.Layers = [MaxLayers]LayerConfig{}
	copy(h.Layers[:], layers)

	if err := w.region.WriteHeader(&h); err != nil {
		panic("shm: " + err.Error())
	}
	w.sequenceNumber = h.SequenceNumber
}

// GetConsumers returns the consumer-kind bitmask accumulated since the
// last ClearConsumers, for diagnosing "is anyone listening?".
func (w *Writer) GetConsumers() kind.Mask {
	h, err := w.region.ReadHeader()
	if err != nil {
		return 0
	}
	return h.ActiveConsumers
}

// ClearConsumers resets the consumer-kind bitmask. Must be called
// under the lock.
func (w *Writer) ClearConsumers() {
	if !w.region.Mutex().HaveLock() {
		panic(errUpdateNoLock)
	}
	h, err := w.region.ReadHeader()
	if err != nil {
		panic("shm: " + err.Error())
	}
	h.ActiveConsumers = 0
	if err := w.region.WriteHeader(&h); err != nil {
		panic("shm: " + err.Error())
	}
}

// Signal submits a device-side fence signal for sequenceNumber,
// commit protocol step 4 (spec §4.6).
func (w *Writer) Signal(sequenceNumber uint32) error {
	return w.device.Signal(w.fence, uint64(sequenceNumber))
}

// Close clears FeederAttached under lock, flushes the device, and
// releases the mapping and mutex (spec §4.6's destructor: "under
// lock, clear FEEDER_ATTACHED, flush view, release lock, unmap").
func (w *Writer) Close() error {
	w.region.Mutex().Lock()
	h, err := w.region.ReadHeader()
	if err == nil {
		h.Flags &^= FeederAttached
		w.region.WriteHeader(&h)
	}
	w.region.Mutex().Unlock()

	if err := w.device.Flush(); err != nil {
		diag.Logger().Warn("shm: writer close: flush failed", "error", err)
	}

	for _, r := range w.rings {
		r.close()
	}
	w.device.DestroyFence(w.fence)
	w.valid = false

	return w.region.Close()
}
