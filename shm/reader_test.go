package shm

import (
	"testing"

	"github.com/Cornflakes-code/OpenKneeboard/gpu/sim"
	"github.com/Cornflakes-code/OpenKneeboard/kind"
)

func commitTestFrame(t *testing.T, w *Writer, target kind.Mask) {
	t.Helper()
	if _, err := w.RenderTarget(0); err != nil {
		t.Fatalf("RenderTarget: %v", err)
	}
	w.Lock()
	defer w.Unlock()
	seq := w.NextSequenceNumber()
	layer := LayerConfig{ImageWidth: 64, ImageHeight: 64}
	w.Update(Config{Target: target}, []LayerConfig{layer}, w.FenceHandle())
	if err := w.Signal(seq); err != nil {
		t.Fatalf("Signal: %v", err)
	}
}

func TestSingleBufferedReaderEmptyBeforeAnyWriter(t *testing.T) {
	tuple := uniqueTuple(t)
	device := sim.New()
	r, err := NewSingleBufferedReader(tuple, device)
	if err != nil {
		t.Fatalf("NewSingleBufferedReader: %v", err)
	}
	defer r.Close()

	snap := r.MaybeGet(kind.Test)
	if snap.State() != Empty {
		t.Fatalf("expected Empty, got %s", snap.State())
	}
}

func TestSingleBufferedReaderHappyPath(t *testing.T) {
	tuple := uniqueTuple(t)
	producerDevice := sim.New()
	w, err := New(tuple, producerDevice, producerDevice.PID())
	if err != nil {
		t.Fatalf("New writer: %v", err)
	}
	defer w.Close()

	consumerDevice := sim.New()
	r, err := NewSingleBufferedReader(tuple, consumerDevice)
	if err != nil {
		t.Fatalf("NewSingleBufferedReader: %v", err)
	}
	defer r.Close()

	commitTestFrame(t, w, kind.Of(kind.Test))
	snap := r.MaybeGet(kind.Test)
	if !snap.IsValid() {
		t.Fatalf("expected Valid, got %s", snap.State())
	}
	if snap.Header().SequenceNumber != 1 {
		t.Fatalf("expected sequence number 1, got %d", snap.Header().SequenceNumber)
	}

	commitTestFrame(t, w, kind.Of(kind.Test))
	snap2 := r.MaybeGet(kind.Test)
	if !snap2.IsValid() {
		t.Fatalf("expected Valid on second frame, got %s", snap2.State())
	}
	if snap2.Header().SequenceNumber != 2 {
		t.Fatalf("expected sequence number 2, got %d", snap2.Header().SequenceNumber)
	}

	commitTestFrame(t, w, kind.Of(kind.Test))
	snap3 := r.MaybeGet(kind.Test)
	if snap3.Header().SequenceNumber != 3 {
		t.Fatalf("expected sequence number 3, got %d", snap3.Header().SequenceNumber)
	}
}

func TestSingleBufferedReaderCacheShortCircuitsUnchangedFrame(t *testing.T) {
	tuple := uniqueTuple(t)
	producerDevice := sim.New()
	w, err := New(tuple, producerDevice, producerDevice.PID())
	if err != nil {
		t.Fatalf("New writer: %v", err)
	}
	defer w.Close()

	consumerDevice := sim.New()
	r, err := NewSingleBufferedReader(tuple, consumerDevice)
	if err != nil {
		t.Fatalf("NewSingleBufferedReader: %v", err)
	}
	defer r.Close()

	commitTestFrame(t, w, kind.Of(kind.Test))
	first := r.MaybeGet(kind.Test)
	second := r.MaybeGet(kind.Test)
	if first.RenderCacheKey() != second.RenderCacheKey() {
		t.Fatalf("expected the same render cache key on an unchanged frame")
	}
	if second.Header().SequenceNumber != 1 {
		t.Fatalf("expected cached snapshot to still report sequence number 1, got %d", second.Header().SequenceNumber)
	}
}

func TestSingleBufferedReaderIncorrectKind(t *testing.T) {
	tuple := uniqueTuple(t)
	producerDevice := sim.New()
	w, err := New(tuple, producerDevice, producerDevice.PID())
	if err != nil {
		t.Fatalf("New writer: %v", err)
	}
	defer w.Close()

	consumerDevice := sim.New()
	r, err := NewSingleBufferedReader(tuple, consumerDevice)
	if err != nil {
		t.Fatalf("NewSingleBufferedReader: %v", err)
	}
	defer r.Close()

	commitTestFrame(t, w, kind.Of(kind.DirectX11))
	snap := r.MaybeGet(kind.Vulkan)
	if snap.State() != IncorrectKind {
		t.Fatalf("expected IncorrectKind, got %s", snap.State())
	}
}

func TestSingleBufferedReaderProducerRestartSequenceGoesBackwards(t *testing.T) {
	tuple := uniqueTuple(t)
	producerDevice := sim.New()
	w, err := New(tuple, producerDevice, producerDevice.PID())
	if err != nil {
		t.Fatalf("New writer: %v", err)
	}

	consumerDevice := sim.New()
	r, err := NewSingleBufferedReader(tuple, consumerDevice)
	if err != nil {
		t.Fatalf("NewSingleBufferedReader: %v", err)
	}
	defer r.Close()

	commitTestFrame(t, w, kind.Of(kind.Test))
	commitTestFrame(t, w, kind.Of(kind.Test))
	snap := r.MaybeGet(kind.Test)
	if snap.Header().SequenceNumber != 2 {
		t.Fatalf("expected sequence number 2 before restart, got %d", snap.Header().SequenceNumber)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close original writer: %v", err)
	}

	restartedDevice := sim.New()
	w2, err := New(tuple, restartedDevice, restartedDevice.PID())
	if err != nil {
		t.Fatalf("New restarted writer: %v", err)
	}
	defer w2.Close()

	commitTestFrame(t, w2, kind.Of(kind.Test))
	after := r.MaybeGet(kind.Test)
	if !after.IsValid() {
		t.Fatalf("expected Valid after a producer restart, got %s", after.State())
	}
	if after.Header().SequenceNumber != 1 {
		t.Fatalf("expected the restarted producer's sequence number 1, got %d", after.Header().SequenceNumber)
	}
}

func TestSingleBufferedReaderCacheDoesNotLeakAcrossConsumerKinds(t *testing.T) {
	tuple := uniqueTuple(t)
	producerDevice := sim.New()
	w, err := New(tuple, producerDevice, producerDevice.PID())
	if err != nil {
		t.Fatalf("New writer: %v", err)
	}
	defer w.Close()

	consumerDevice := sim.New()
	r, err := NewSingleBufferedReader(tuple, consumerDevice)
	if err != nil {
		t.Fatalf("NewSingleBufferedReader: %v", err)
	}
	defer r.Close()

	commitTestFrame(t, w, kind.Of(kind.DirectX11))

	dx11Snap := r.MaybeGet(kind.DirectX11)
	if !dx11Snap.IsValid() {
		t.Fatalf("expected Valid for the matching kind, got %s", dx11Snap.State())
	}

	// Same unchanged header (same render cache key), but a different
	// caller kind: must not be served the DirectX11 caller's cached
	// Valid snapshot.
	vulkanSnap := r.MaybeGet(kind.Vulkan)
	if vulkanSnap.State() != IncorrectKind {
		t.Fatalf("expected IncorrectKind for a mismatched kind on a cached frame, got %s", vulkanSnap.State())
	}
}

func TestSingleBufferedReaderZeroLayersIsNotValid(t *testing.T) {
	tuple := uniqueTuple(t)
	producerDevice := sim.New()
	w, err := New(tuple, producerDevice, producerDevice.PID())
	if err != nil {
		t.Fatalf("New writer: %v", err)
	}
	defer w.Close()

	consumerDevice := sim.New()
	r, err := NewSingleBufferedReader(tuple, consumerDevice)
	if err != nil {
		t.Fatalf("NewSingleBufferedReader: %v", err)
	}
	defer r.Close()

	w.Lock()
	w.Update(Config{Target: kind.Of(kind.Test)}, nil, w.FenceHandle())
	w.Unlock()

	snap := r.MaybeGet(kind.Test)
	if snap.IsValid() {
		t.Fatalf("expected a zero-layer frame to not report Valid, got %s", snap.State())
	}
}

func TestReaderMarksActiveConsumer(t *testing.T) {
	tuple := uniqueTuple(t)
	producerDevice := sim.New()
	w, err := New(tuple, producerDevice, producerDevice.PID())
	if err != nil {
		t.Fatalf("New writer: %v", err)
	}
	defer w.Close()

	consumerDevice := sim.New()
	r, err := NewSingleBufferedReader(tuple, consumerDevice)
	if err != nil {
		t.Fatalf("NewSingleBufferedReader: %v", err)
	}
	defer r.Close()

	commitTestFrame(t, w, kind.Of(kind.Vulkan))
	r.MaybeGet(kind.Vulkan)

	if got := w.GetConsumers(); got&kind.Mask(kind.Vulkan) == 0 {
		t.Fatalf("expected ActiveConsumers to include Vulkan, got %v", got)
	}
}
