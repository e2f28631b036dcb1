package mailslot

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Packet{
		{Name: "ACTIVATE", Value: "1"},
		{Name: "SetTabByID", Value: `{"mID":"abc","mPageNumber":2}`},
		{Name: "", Value: ""},
		{Name: "a", Value: ""},
		{Name: "", Value: "b"},
	}
	for _, want := range cases {
		encoded := want.Encode()
		got, ok := Decode(encoded)
		if !ok {
			t.Fatalf("Decode(%q) failed to parse its own Encode output", encoded)
		}
		if got != want {
			t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
		}
	}
}

func TestDecodeRejectsMissingTrailingBang(t *testing.T) {
	p := Packet{Name: "x", Value: "y"}
	encoded := p.Encode()
	truncated := encoded[:len(encoded)-1]
	if _, ok := Decode(truncated); ok {
		t.Fatalf("Decode accepted a packet missing its trailing '!'")
	}
}

func TestDecodeRejectsTooShort(t *testing.T) {
	if _, ok := Decode([]byte("00000000!!0000")); ok {
		t.Fatalf("Decode accepted an undersized packet")
	}
}

func TestDecodeRejectsInconsistentDeclaredLength(t *testing.T) {
	// Declares a name of length 5 but only provides 1 byte of name.
	if _, ok := Decode([]byte("00000005!x!00000000!!")); ok {
		t.Fatalf("Decode accepted a packet whose declared name length exceeds its content")
	}
}

func TestDecodeRejectsBadPadding(t *testing.T) {
	// Value region isn't terminated by exactly one '!'.
	if _, ok := Decode([]byte("00000001!x!00000001!yz")); ok {
		t.Fatalf("Decode accepted a packet with a malformed value terminator")
	}
}

func TestDecodeRejectsNonHexLength(t *testing.T) {
	if _, ok := Decode([]byte("zzzzzzzz!x!00000000!!")); ok {
		t.Fatalf("Decode accepted a non-hex length field")
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, ok := Decode(nil); ok {
		t.Fatalf("Decode accepted an empty packet")
	}
}
