package version

import "testing"

func TestSectionNameChangesWithHeaderSize(t *testing.T) {
	tup := Tuple{Project: "OpenKneeboard", Major: 1, Minor: 2, Patch: 3, Build: 4}
	a := tup.SectionName(64)
	b := tup.SectionName(65)
	if a == b {
		t.Fatalf("section names must differ when header size differs: %q == %q", a, b)
	}
}

func TestMutexNameIsSectionNameWithSuffix(t *testing.T) {
	tup := Tuple{Project: "OpenKneeboard", Major: 1, Minor: 2, Patch: 3, Build: 4}
	section := tup.SectionName(64)
	mutex := tup.MutexName(64)
	if mutex != section+".mutex" {
		t.Fatalf("MutexName = %q, want %q", mutex, section+".mutex")
	}
}

func TestTextureNameWrapsOnRingSize(t *testing.T) {
	tup := Tuple{Project: "OpenKneeboard", Major: 1, Minor: 0, Patch: 0, Build: 0}
	a := tup.TextureName(0xABCD, 0, 0, 3)
	b := tup.TextureName(0xABCD, 0, 3, 3)
	if a != b {
		t.Fatalf("texture names should coincide for sequence numbers 0 and 3 mod 3: %q != %q", a, b)
	}
	c := tup.TextureName(0xABCD, 0, 1, 3)
	if a == c {
		t.Fatalf("texture names for different ring slots must differ")
	}
}

func TestTextureNameDiffersPerLayer(t *testing.T) {
	tup := Tuple{Project: "OpenKneeboard", Major: 1, Minor: 0, Patch: 0, Build: 0}
	a := tup.TextureName(1, 0, 0, 3)
	b := tup.TextureName(1, 1, 0, 3)
	if a == b {
		t.Fatalf("texture names must differ per layer index")
	}
}

func TestMailslotNameIsStable(t *testing.T) {
	tup := Tuple{Project: "OpenKneeboard", Major: 9, Minor: 9, Patch: 9, Build: 9}
	if got, want := tup.MailslotName(), `\\.\mailslot\OpenKneeboard.events.v1.3`; got != want {
		t.Fatalf("MailslotName = %q, want %q", got, want)
	}
}
