package kind

import "testing"

func TestMatchesIsSubsetOfKind(t *testing.T) {
	target := Of(DirectX11)
	if !target.Matches(DirectX11) {
		t.Fatal("single-API target should match the same single-API kind")
	}
	if target.Matches(Vulkan) {
		t.Fatal("target should not match an unrelated kind")
	}
}

func TestMatchesRequiresFullCoverage(t *testing.T) {
	target := Of(DirectX11, Vulkan)
	if target.Matches(DirectX11) {
		t.Fatal("a consumer declaring only DirectX11 must not satisfy a combined target")
	}
	if !target.Matches(DirectX11 | Vulkan) {
		t.Fatal("a consumer declaring both APIs should satisfy the combined target")
	}
}

func TestMatchesIsNotIntersection(t *testing.T) {
	// A consumer declaring a superset of kinds still matches: subset-of-kind,
	// not exact equality.
	target := Of(DirectX11)
	superset := DirectX11 | Vulkan
	if !target.Matches(superset) {
		t.Fatal("a consumer kind that is a superset of the target should match")
	}

	// A kind that overlaps the target without covering it would pass an
	// intersection test, but must not match.
	if Of(DirectX11, Vulkan).Matches(DirectX11 | OpenXR) {
		t.Fatal("a consumer kind that only overlaps the target must not match")
	}
}

func TestZeroTargetMatchesAnything(t *testing.T) {
	var target Mask
	if !target.Matches(Test) {
		t.Fatal("an empty target mask should match any consumer kind")
	}
}
