package shm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/Cornflakes-code/OpenKneeboard/kind"
)

// Magic identifies a mapping that has been initialized by a producer.
// Its length is fixed at 8 bytes so it occupies exactly one uint64 of
// the header and can never be confused with zeroed memory that happens
// to have other bits set.
const Magic = "OKBMagic"

// MaxLayers bounds the number of layers a single frame can carry.
const MaxLayers = 2

// TextureCount is the size of the rotating texture ring, per layer.
const TextureCount = 3

// TextureWidth and TextureHeight are the fixed dimensions of every
// shared texture for this build's version tuple. A build that needs
// different dimensions must bump its version, which changes every
// cross-process name (see package version) and so cannot alias an
// incompatible reader or writer.
const (
	TextureWidth  = 2048
	TextureHeight = 2048
)

// Flags is a bitfield of header-level state.
type Flags uint32

// FeederAttached is set for the lifetime of an attached producer and
// cleared when the producer is destroyed, so consumers can distinguish
// "no feeder" from "feeder restarted" and from "feeder exited cleanly."
const FeederAttached Flags = 1 << 0

// Config is the global, versioned configuration published alongside
// each frame.
type Config struct {
	// Target is the consumer-kind mask this frame was rendered for. A
	// consumer is only delivered the frame if its own kind satisfies
	// Target (see kind.Mask.Matches).
	Target kind.Mask
}

// Pose is a rigid transform used to place a layer in 3D space for VR
// consumers. Non-VR layers leave it zeroed.
type Pose struct {
	OrientationX, OrientationY, OrientationZ, OrientationW float32
	PositionX, PositionY, PositionZ                        float32
}

// LayerConfig describes one layer's placement and backing image size.
type LayerConfig struct {
	X, Y, Width, Height float32
	Pose                Pose
	ImageWidth          uint32
	ImageHeight         uint32
}

// IsValid reports whether the layer has a non-empty backing image.
func (l LayerConfig) IsValid() bool {
	return l.ImageWidth > 0 && l.ImageHeight > 0
}

// Header is the fixed-layout control structure that lives at offset 0
// of the shared mapping. All mutation of a live Header must happen
// under the mutex returned by Region.Mutex; all reads that must be
// consistent with a single commit likewise require the mutex.
//
// Header intentionally contains no pointers and no variable-length
// data: every field is binary-encodable to a fixed number of bytes, so
// the struct can be marshalled into and out of memory owned by another
// process without the Go runtime ever tracing a pointer across that
// boundary.
type Header struct {
	Magic           [8]byte
	SequenceNumber  uint32
	SessionID       uint64
	Flags           Flags
	Config          Config
	FeederPID       uint32
	Fence           uint64
	LayerCount      uint8
	_               [3]byte // pad LayerCount to a 4-byte boundary for Layers
	Layers          [MaxLayers]LayerConfig
	ActiveConsumers kind.Mask
}

// HeaderSize is the fixed, binary-encoded size of Header. It is salted
// into the section name (see version.Tuple.SectionName) so that any
// change to this struct changes the name and can never alias an
// incompatible build.
var HeaderSize = binary.Size(Header{})

// HaveFeeder reports whether the header was written by a live producer:
// the magic must be intact (ruling out a zeroed or never-initialized
// mapping) and FeederAttached must be set.
func (h *Header) HaveFeeder() bool {
	return bytes.Equal(h.Magic[:], []byte(Magic)) && h.Flags&FeederAttached == FeederAttached
}

// RenderCacheKey combines the session ID and sequence number into a
// short key readers use to deduplicate snapshots. It is deliberately
// cheap: the session ID already contains random data (see
// NewSessionID), so XOR-combining a single additional monotonic value
// is sufficient to make collisions across different (session,
// sequence) pairs implausible without needing a general-purpose
// hash-combine.
func (h *Header) RenderCacheKey() uint64 {
	return hashUint64(h.SessionID) ^ hashUint64(uint64(h.SequenceNumber))
}

func hashUint64(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	hsh := fnv.New64a()
	hsh.Write(b[:])
	return hsh.Sum64()
}

// MarshalBinary encodes the header to its fixed-size wire form.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(HeaderSize)
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("shm: marshal header: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a header previously written by MarshalBinary.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("shm: unmarshal header: need %d bytes, got %d", HeaderSize, len(data))
	}
	return binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, h)
}
