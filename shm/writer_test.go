package shm

import (
	"testing"

	"github.com/Cornflakes-code/OpenKneeboard/gpu/sim"
	"github.com/Cornflakes-code/OpenKneeboard/kind"
)

func TestWriterNewInitialisesHeader(t *testing.T) {
	device := sim.New()
	w, err := New(uniqueTuple(t), device, device.PID())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	w.Lock()
	defer w.Unlock()
	h, err := w.region.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if !h.HaveFeeder() {
		t.Fatalf("expected HaveFeeder true right after New")
	}
	if h.FeederPID != device.PID() {
		t.Fatalf("expected FeederPID %d, got %d", device.PID(), h.FeederPID)
	}
}

func TestWriterNextTextureIndexAndSequenceNumber(t *testing.T) {
	device := sim.New()
	w, err := New(uniqueTuple(t), device, device.PID())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if got := w.NextTextureIndex(); got != 1 {
		t.Fatalf("expected first NextTextureIndex to be 1, got %d", got)
	}
	if got := w.NextSequenceNumber(); got != 1 {
		t.Fatalf("expected first NextSequenceNumber to be 1, got %d", got)
	}

	layer := LayerConfig{ImageWidth: 1, ImageHeight: 1}
	w.Lock()
	w.Update(Config{Target: kind.Of(kind.Test)}, []LayerConfig{layer}, w.FenceHandle())
	w.Unlock()

	if got := w.NextSequenceNumber(); got != 2 {
		t.Fatalf("expected NextSequenceNumber to be 2 after one commit, got %d", got)
	}
	if got := w.NextTextureIndex(); got != 2%TextureCount {
		t.Fatalf("expected NextTextureIndex %d, got %d", 2%TextureCount, got)
	}
}

func TestWriterUpdateWithoutLockPanics(t *testing.T) {
	device := sim.New()
	w, err := New(uniqueTuple(t), device, device.PID())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Update without a held lock to panic")
		}
	}()
	w.Update(Config{}, nil, 0)
}

func TestWriterUpdateTooManyLayersPanics(t *testing.T) {
	device := sim.New()
	w, err := New(uniqueTuple(t), device, device.PID())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	w.Lock()
	defer w.Unlock()

	layers := make([]LayerConfig, MaxLayers+1)
	for i := range layers {
		layers[i] = LayerConfig{ImageWidth: 1, ImageHeight: 1}
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected too many layers to panic")
		}
	}()
	w.Update(Config{}, layers, 0)
}

func TestWriterUpdateZeroSizedImagePanics(t *testing.T) {
	device := sim.New()
	w, err := New(uniqueTuple(t), device, device.PID())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	w.Lock()
	defer w.Unlock()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a zero-sized layer to panic")
		}
	}()
	w.Update(Config{}, []LayerConfig{{}}, 0)
}

func TestWriterClearAndGetConsumers(t *testing.T) {
	device := sim.New()
	w, err := New(uniqueTuple(t), device, device.PID())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	w.Lock()
	h, err := w.region.ReadHeader()
	if err != nil {
		w.Unlock()
		t.Fatalf("ReadHeader: %v", err)
	}
	h.ActiveConsumers = kind.Mask(kind.Test)
	if err := w.region.WriteHeader(&h); err != nil {
		w.Unlock()
		t.Fatalf("WriteHeader: %v", err)
	}
	w.Unlock()

	if got := w.GetConsumers(); got != kind.Mask(kind.Test) {
		t.Fatalf("expected GetConsumers to report Test, got %v", got)
	}

	w.Lock()
	w.ClearConsumers()
	w.Unlock()

	if got := w.GetConsumers(); got != 0 {
		t.Fatalf("expected GetConsumers to be 0 after ClearConsumers, got %v", got)
	}
}

func TestWriterCloseClearsFeederAttached(t *testing.T) {
	device := sim.New()
	tuple := uniqueTuple(t)
	w, err := New(tuple, device, device.PID())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	region, err := OpenRegion(tuple)
	if err != nil {
		t.Fatalf("OpenRegion: %v", err)
	}
	defer region.Close()

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	region.Mutex().Lock()
	defer region.Mutex().Unlock()
	h, err := region.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.HaveFeeder() {
		t.Fatalf("expected HaveFeeder false after Close")
	}
}
