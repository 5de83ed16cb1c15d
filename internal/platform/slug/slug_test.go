package slug

import "testing"

func TestMake(t *testing.T) {
	cases := map[string]string{
		"  The Shining ":          "the-shining",
		"Alien: Covenant":         "alien-covenant",
		"snake_case__name":        "snake-case-name",
		"Gore/Violence":           "goreviolence",
		"--Already--dashed--":     "already-dashed",
		"Amélie":                  "amlie",
		"It (2017 film)":          "it-2017-film",
		"Jump Scares":             "jump-scares",
		"Night   of the   Living": "night-of-the-living",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestForEntityWidensShortNames(t *testing.T) {
	if got := ForEntity("It", "2017 horror film"); got != "it-2017-horror-film" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := ForEntity("!!", ""); got != "entity" {
		t.Fatalf("expected entity fallback, got %q", got)
	}
	if got := ForEntity("Us", ""); got != "entity-us" {
		t.Fatalf("expected entity-us, got %q", got)
	}
}

func TestDimensionNameInvertsMake(t *testing.T) {
	for _, name := range []string{"Jump Scares", "Gore Violence", "Psychological Terror", "Suspense Tension", "Disturbing Content"} {
		if got := DimensionName(Make(name)); got != name {
			t.Fatalf("round trip of %q produced %q", name, got)
		}
	}
}
