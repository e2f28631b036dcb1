package shm

import (
	"time"

	"github.com/Cornflakes-code/OpenKneeboard/diag"
	"github.com/Cornflakes-code/OpenKneeboard/gpu"
	"github.com/Cornflakes-code/OpenKneeboard/kind"
	"github.com/Cornflakes-code/OpenKneeboard/version"
)

// WaitTimeout bounds how long Reader.MaybeGet waits on the producer's
// fence for a single read before giving up (not part of the wire
// protocol; a local policy knob).
const WaitTimeout = 100 * time.Millisecond

// Reader is the core consumer (spec §4.7, "Core Reader"): given a
// device, an imported fence and caller-owned local textures, it turns
// the shared control region into Snapshot values. It never owns the
// fence or the local textures it copies into; SingleBufferedReader
// manages their lifetime.
type Reader struct {
	region *Region
	tuple  version.Tuple

	cache              Snapshot
	cacheValid         bool
	cachedConsumerKind kind.Kind
}

// NewReader attaches to the shared control region for tuple through
// OpenRegion, which creates the mapping if no producer has created it
// yet. Until a producer attaches, MaybeGet calls observe Empty.
func NewReader(tuple version.Tuple) (*Reader, error) {
	region, err := OpenRegion(tuple)
	if err != nil {
		return nil, err
	}
	return &Reader{region: region, tuple: tuple}, nil
}

// Close releases the underlying region.
func (r *Reader) Close() error { return r.region.Close() }

// FrameCountForMetricsOnly returns the most recently observed sequence
// number, independent of Snapshot validity. It exists purely for
// telemetry (a producer restart or a kind mismatch should not make a
// frame-rate counter appear to stall) and must never gate any control
// flow decision.
func (r *Reader) FrameCountForMetricsOnly() uint32 {
	h, err := r.region.ReadHeader()
	if err != nil {
		return 0
	}
	return h.SequenceNumber
}

// MaybeGet implements the core reader algorithm (spec §4.7). device is
// used to open ring textures by name and to issue the wait/copy/flush
// commands, in that order, so the fence wait actually gates the copy
// instead of racing it; fence is the caller-imported producer fence; rings opens
// the shared ring textures by name, caching them across calls; local
// holds the caller-owned destination texture for each layer index,
// copied into on a Valid outcome; consumerKind identifies the caller
// for active_consumers accounting and kind matching.
func (r *Reader) MaybeGet(device gpu.Device, fence gpu.Fence, rings *consumerTextureSet, local [MaxLayers]gpu.Texture, consumerKind kind.Kind) Snapshot {
	h, err := r.region.ReadHeader()
	if err != nil {
		return emptySnapshot()
	}
	if !h.HaveFeeder() {
		r.cacheValid = false
		return emptySnapshot()
	}

	if consumerKind != kind.Test {
		r.markConsumer(consumerKind)
	}

	newKey := h.RenderCacheKey()
	if r.cacheValid && r.cache.renderCacheKey == newKey && r.cache.state != IncorrectKind && r.cachedConsumerKind == consumerKind {
		return r.cache
	}

	ok, abandoned := r.region.Mutex().TryLock()
	if !ok {
		if r.cacheValid {
			return r.cache
		}
		return emptySnapshot()
	}
	defer r.region.Mutex().Unlock()

	if abandoned {
		r.region.Zero()
		r.cacheValid = false
		return emptySnapshot()
	}

	h, err = r.region.ReadHeader()
	if err != nil || !h.HaveFeeder() {
		r.cacheValid = false
		return emptySnapshot()
	}

	if h.SessionID != rings.session {
		rings.reset(h.SessionID)
	}

	if !h.Config.Target.Matches(consumerKind) {
		snap := incorrectKindSnapshot(h)
		r.cache = snap
		r.cacheValid = true
		r.cachedConsumerKind = consumerKind
		return snap
	}

	if h.LayerCount == 0 {
		diag.Logger().Debug("shm: header has a feeder but no layers, reporting empty")
		r.cacheValid = false
		return emptySnapshot()
	}

	if r.cacheValid && h.SequenceNumber < r.cache.header.SequenceNumber {
		diag.Logger().Warn("shm: sequence number went backwards, producer likely restarted",
			"previous", r.cache.header.SequenceNumber, "current", h.SequenceNumber)
	}

	if fence != nil {
		if _, err := device.Wait(fence, uint64(h.SequenceNumber), WaitTimeout); err != nil {
			diag.Logger().Debug("shm: fence wait failed", "error", err)
		}
	}

	snap := Snapshot{state: Valid, header: h, renderCacheKey: newKey, layerTextures: local}
	for i := uint8(0); i < h.LayerCount; i++ {
		layer := h.Layers[i]
		if !layer.IsValid() {
			continue
		}
		shared, err := rings.open(i, h.SequenceNumber)
		if err != nil {
			diag.Logger().Debug("shm: failed to open ring texture, resetting ring state", "layer", i, "error", err)
			rings.reset(h.SessionID)
			r.cacheValid = false
			return emptySnapshot()
		}
		dst := local[i]
		if dst == nil {
			continue
		}
		if err := device.CopySubresource(dst, shared); err != nil {
			diag.Logger().Debug("shm: copy_subresource failed, resetting ring state", "layer", i, "error", err)
			rings.reset(h.SessionID)
			r.cacheValid = false
			return emptySnapshot()
		}
	}

	if err := device.Flush(); err != nil {
		diag.Logger().Debug("shm: flush failed", "error", err)
	}

	r.cache = snap
	r.cacheValid = true
	r.cachedConsumerKind = consumerKind
	return snap
}

// markConsumer ORs consumerKind into active_consumers. This is a
// best-effort write: a failure to acquire the lock simply means this
// call's contribution is dropped, which is acceptable since it is
// accumulated across many frames.
func (r *Reader) markConsumer(consumerKind kind.Kind) {
	ok, _ := r.region.Mutex().TryLock()
	if !ok {
		return
	}
	defer r.region.Mutex().Unlock()
	h, err := r.region.ReadHeader()
	if err != nil {
		return
	}
	h.ActiveConsumers |= kind.Mask(consumerKind)
	r.region.WriteHeader(&h)
}

// SingleBufferedReader is the convenience wrapper described in spec
// §4.7: it owns a set of locally-allocated destination textures and
// the fence-import lifecycle, re-resolving both whenever the header's
// (device, session_id) pair changes.
type SingleBufferedReader struct {
	core   *Reader
	tuple  version.Tuple
	device gpu.Device

	session  uint64
	fence    gpu.Fence
	local    [MaxLayers]gpu.Texture
	textures *consumerTextureSet
	ready    bool
}

// NewSingleBufferedReader creates a SingleBufferedReader bound to
// tuple and device.
func NewSingleBufferedReader(tuple version.Tuple, device gpu.Device) (*SingleBufferedReader, error) {
	core, err := NewReader(tuple)
	if err != nil {
		return nil, err
	}
	return &SingleBufferedReader{core: core, tuple: tuple, device: device}, nil
}

// Close releases the reader and every resource it currently owns.
func (s *SingleBufferedReader) Close() error {
	s.releaseResources()
	return s.core.Close()
}

func (s *SingleBufferedReader) releaseResources() {
	for i, t := range s.local {
		if t != nil {
			s.device.DestroyTexture(t)
			s.local[i] = nil
		}
	}
	if s.fence != nil {
		s.device.DestroyFence(s.fence)
		s.fence = nil
	}
	if s.textures != nil {
		s.textures.close()
		s.textures = nil
	}
	s.ready = false
}

// initDXResources (re)allocates local textures and imports the
// producer's fence for a newly observed session, logging the adapter
// in use the way the original implementation's
// SingleBufferedReader::InitDXResources does (SPEC_FULL.md §4). If any
// step fails, the reader is left inert and every MaybeGet call
// observes Empty until a future header read finds a working session.
func (s *SingleBufferedReader) initDXResources(h Header) {
	s.releaseResources()

	for i := range s.local {
		t, err := s.device.CreateTexture()
		if err != nil {
			diag.Logger().Warn("shm: SingleBufferedReader: failed to allocate local texture", "layer", i, "error", err)
			return
		}
		s.local[i] = t
	}

	fence, err := s.device.ImportFence(h.FeederPID, uintptr(h.Fence))
	if err != nil {
		diag.Logger().Warn("shm: SingleBufferedReader: failed to import fence", "feederPID", h.FeederPID, "error", err)
		s.releaseResources()
		return
	}
	s.fence = fence
	s.session = h.SessionID
	s.textures = newConsumerTextureSet(s.device, s.tuple, h.SessionID)
	s.ready = true
	diag.Logger().Info("shm: SingleBufferedReader attached", "session", h.SessionID, "adapter", s.device.Describe())
}

// MaybeGet returns the latest snapshot for consumerKind, (re)resolving
// local resources first if the producer's session has changed since
// the last call.
func (s *SingleBufferedReader) MaybeGet(consumerKind kind.Kind) Snapshot {
	h, err := s.core.region.ReadHeader()
	if err != nil || !h.HaveFeeder() {
		return emptySnapshot()
	}
	if !s.ready || h.SessionID != s.session {
		s.initDXResources(h)
		if !s.ready {
			return emptySnapshot()
		}
	}

	return s.core.MaybeGet(s.device, s.fence, s.textures, s.local, consumerKind)
}
