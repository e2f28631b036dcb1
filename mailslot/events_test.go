package mailslot

import "testing"

func TestSetTabByIDRoundTripsThroughPacket(t *testing.T) {
	want := SetTabByIDEvent{ID: "abc-123", PageNumber: 4, Kneeboard: 1}
	p := NewSetTabByID(want)
	if p.Name != EventSetTabByID {
		t.Fatalf("unexpected event name %q", p.Name)
	}

	encoded := p.Encode()
	decoded, ok := Decode(encoded)
	if !ok {
		t.Fatalf("Decode failed on an encoded SetTabByID packet")
	}
	if decoded != p {
		t.Fatalf("packet mismatch after wire round trip: want %+v, got %+v", p, decoded)
	}
}

func TestSetBrightnessModes(t *testing.T) {
	p := NewSetBrightness(SetBrightnessEvent{Brightness: 0.5, Mode: BrightnessRelative})
	if p.Value == "" {
		t.Fatalf("expected non-empty JSON value")
	}
}

func TestMultiEventRoundTrip(t *testing.T) {
	a := NewRemoteUserAction("NEXT_PAGE")
	b := NewSetProfileByID(SetProfileByIDEvent{ID: "profile-1"})

	multi := NewMultiEvent(a, b)
	got, err := DecodeMultiEvent(multi.Value)
	if err != nil {
		t.Fatalf("DecodeMultiEvent: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("multi-event round trip mismatch: got %+v", got)
	}
}
