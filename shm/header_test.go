package shm

import (
	"testing"

	"github.com/Cornflakes-code/OpenKneeboard/kind"
)

func TestHeaderMarshalRoundTrip(t *testing.T) {
	h := Header{
		SequenceNumber: 42,
		SessionID:      0xdeadbeef,
		Flags:          FeederAttached,
		Config:         Config{Target: kind.Of(kind.DirectX11, kind.Vulkan)},
		FeederPID:      1234,
		Fence:          0xabc,
		LayerCount:     2,
		ActiveConsumers: kind.Of(kind.Vulkan),
	}
	copy(h.Magic[:], Magic)
	h.Layers[0] = LayerConfig{X: 1, Y: 2, Width: 3, Height: 4, ImageWidth: 1024, ImageHeight: 2048}

	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != HeaderSize {
		t.Fatalf("expected %d bytes, got %d", HeaderSize, len(data))
	}

	var got Header
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", h, got)
	}
}

func TestHaveFeederRequiresMagicAndFlag(t *testing.T) {
	var h Header
	if h.HaveFeeder() {
		t.Fatalf("zero-valued header should not report a feeder")
	}
	copy(h.Magic[:], Magic)
	if h.HaveFeeder() {
		t.Fatalf("magic alone without FeederAttached should not report a feeder")
	}
	h.Flags |= FeederAttached
	if !h.HaveFeeder() {
		t.Fatalf("magic + FeederAttached should report a feeder")
	}
}

func TestRenderCacheKeyChangesWithSequenceNumber(t *testing.T) {
	h := Header{SessionID: 1, SequenceNumber: 1}
	k1 := h.RenderCacheKey()
	h.SequenceNumber = 2
	k2 := h.RenderCacheKey()
	if k1 == k2 {
		t.Fatalf("expected different cache keys for different sequence numbers")
	}
}

func TestRenderCacheKeyChangesWithSession(t *testing.T) {
	h1 := Header{SessionID: 1, SequenceNumber: 5}
	h2 := Header{SessionID: 2, SequenceNumber: 5}
	if h1.RenderCacheKey() == h2.RenderCacheKey() {
		t.Fatalf("expected different cache keys for different sessions")
	}
}

func TestLayerConfigIsValid(t *testing.T) {
	if (LayerConfig{}).IsValid() {
		t.Fatalf("zero-sized layer should not be valid")
	}
	if !(LayerConfig{ImageWidth: 1, ImageHeight: 1}).IsValid() {
		t.Fatalf("non-zero-sized layer should be valid")
	}
}
