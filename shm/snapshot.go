package shm

import (
	"github.com/Cornflakes-code/OpenKneeboard/gpu"
)

// State is the outcome of a Reader.MaybeGet call. Every value is a
// non-fatal, retryable outcome (spec §7, §4.7: "all failures ... yield
// non-fatal snapshot states; the next call retries").
type State uint8

const (
	// Empty means no producer is attached, or the mapping has not been
	// created yet.
	Empty State = iota
	// IncorrectKind means a producer is attached but this frame was not
	// rendered for the caller's consumer kind.
	IncorrectKind
	// Valid means header and per-layer textures were copied
	// successfully and are ready to sample.
	Valid
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case IncorrectKind:
		return "IncorrectKind"
	case Valid:
		return "Valid"
	default:
		return "Unknown"
	}
}

// Snapshot is a consumer's own copy of one committed frame: a header
// copy plus, when Valid, the caller-owned local textures the core
// reader copied the shared ring textures into.
type Snapshot struct {
	state         State
	header        Header
	renderCacheKey uint64
	layerTextures [MaxLayers]gpu.Texture
}

// IsValid reports whether this snapshot carries a usable frame.
func (s Snapshot) IsValid() bool { return s.state == Valid }

// State reports the outcome this snapshot represents.
func (s Snapshot) State() State { return s.state }

// Header returns the header copy backing this snapshot. Only
// meaningful when IsValid; for Empty and IncorrectKind it is the
// zero/partial header observed at the time of the outcome.
func (s Snapshot) Header() Header { return s.header }

// RenderCacheKey returns the key MaybeGet uses to detect an unchanged
// frame across calls.
func (s Snapshot) RenderCacheKey() uint64 { return s.renderCacheKey }

// LayerTexture returns the caller-owned local texture holding the
// copy of ring layer i, valid only when IsValid.
func (s Snapshot) LayerTexture(i uint8) gpu.Texture {
	if int(i) >= len(s.layerTextures) {
		return nil
	}
	return s.layerTextures[i]
}

func emptySnapshot() Snapshot {
	return Snapshot{state: Empty}
}

func incorrectKindSnapshot(h Header) Snapshot {
	return Snapshot{state: IncorrectKind, header: h}
}
