package shm

import (
	"fmt"

	"github.com/Cornflakes-code/OpenKneeboard/version"
)

// platformRegion is implemented per-OS and exposes the raw mapped
// memory backing a Region.
type platformRegion interface {
	// bytes returns the mapped memory as a slice of the requested
	// size. Writes to it are visible to every other process mapping
	// the same section.
	bytes() []byte
	close() error
}

// Region is the named shared control region described in spec §4.2: a
// fixed-size mapping holding exactly one Header, plus the named mutex
// that guards all non-atomic access to it.
//
// Region is shared by Writer and Reader; callers normally use those
// higher-level types rather than Region directly.
type Region struct {
	tuple    version.Tuple
	platform platformRegion
	mutex    *Mutex
}

// OpenRegion creates (if this is the first attach) or opens the named
// mapping and mutex for tuple. The mapping is always sized to exactly
// HeaderSize bytes, per spec §4.2.
func OpenRegion(tuple version.Tuple) (*Region, error) {
	sectionName := tuple.SectionName(HeaderSize)
	platform, err := newPlatformRegion(sectionName, HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("shm: open region %q: %w", sectionName, err)
	}

	mutexName := tuple.MutexName(HeaderSize)
	mutex, err := NewMutex(mutexName)
	if err != nil {
		platform.close()
		return nil, fmt.Errorf("shm: open region mutex %q: %w", mutexName, err)
	}

	return &Region{tuple: tuple, platform: platform, mutex: mutex}, nil
}

// Mutex returns the mutex guarding this region.
func (r *Region) Mutex() *Mutex { return r.mutex }

// ReadHeader decodes the header currently in the mapping. Per spec
// §4.2/§5, most callers should do this only while holding Mutex;
// the exceptions are the intentionally racy, best-effort peeks used by
// Reader.MaybeGet before it acquires the lock (checking for "no
// feeder at all" and comparing the render cache key), which tolerate
// a torn read because they only ever gate a decision to try the
// locked path, never data trusted as final.
func (r *Region) ReadHeader() (Header, error) {
	var h Header
	if err := h.UnmarshalBinary(r.platform.bytes()); err != nil {
		return Header{}, err
	}
	return h, nil
}

// WriteHeader encodes h into the mapping. The caller must hold Mutex.
func (r *Region) WriteHeader(h *Header) error {
	data, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	copy(r.platform.bytes(), data)
	return nil
}

// Zero clears the entire mapping, invalidating Magic and so any
// reader's HaveFeeder check, without changing its size. The caller
// must hold Mutex. This is used on abandoned-mutex recovery (spec
// §4.3/§5) since the header contents left by a crashed producer
// cannot be trusted.
func (r *Region) Zero() {
	b := r.platform.bytes()
	for i := range b {
		b[i] = 0
	}
}

// Close releases the mapping and the mutex. The mutex must not be held.
func (r *Region) Close() error {
	err1 := r.platform.close()
	err2 := r.mutex.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
