package shm

import (
	"testing"

	"github.com/Cornflakes-code/OpenKneeboard/version"
)

func uniqueTuple(t *testing.T) version.Tuple {
	return version.Tuple{
		Project: "openkneeboard-test-" + t.Name(),
		Major:   1,
		Build:   uint32(mutexNameCounter()),
	}
}

func TestRegionWriteReadHeaderRoundTrip(t *testing.T) {
	region, err := OpenRegion(uniqueTuple(t))
	if err != nil {
		t.Fatalf("OpenRegion: %v", err)
	}
	defer region.Close()

	region.Mutex().Lock()
	defer region.Mutex().Unlock()

	h := Header{SequenceNumber: 7, SessionID: 99, Flags: FeederAttached}
	copy(h.Magic[:], Magic)

	if err := region.WriteHeader(&h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	got, err := region.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", h, got)
	}
}

func TestRegionZeroClearsMagic(t *testing.T) {
	region, err := OpenRegion(uniqueTuple(t))
	if err != nil {
		t.Fatalf("OpenRegion: %v", err)
	}
	defer region.Close()

	region.Mutex().Lock()
	defer region.Mutex().Unlock()

	h := Header{Flags: FeederAttached}
	copy(h.Magic[:], Magic)
	if err := region.WriteHeader(&h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	region.Zero()

	got, err := region.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got.HaveFeeder() {
		t.Fatalf("expected HaveFeeder to be false after Zero")
	}
}

func TestOpenRegionTwiceSharesMapping(t *testing.T) {
	tuple := uniqueTuple(t)

	first, err := OpenRegion(tuple)
	if err != nil {
		t.Fatalf("OpenRegion (first): %v", err)
	}
	defer first.Close()

	first.Mutex().Lock()
	h := Header{SequenceNumber: 3}
	copy(h.Magic[:], Magic)
	h.Flags = FeederAttached
	if err := first.WriteHeader(&h); err != nil {
		first.Mutex().Unlock()
		t.Fatalf("WriteHeader: %v", err)
	}
	first.Mutex().Unlock()

	second, err := OpenRegion(tuple)
	if err != nil {
		t.Fatalf("OpenRegion (second): %v", err)
	}
	defer second.Close()

	second.Mutex().Lock()
	defer second.Mutex().Unlock()

	got, err := second.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if !got.HaveFeeder() || got.SequenceNumber != 3 {
		t.Fatalf("second mapping did not observe first's write: %+v", got)
	}
}
