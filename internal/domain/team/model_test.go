package team

import "testing"

func TestCanonical(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Tigers":          "Richmond",
		"RICH":            "Richmond",
		"RIC":             "Richmond",
		"richmond":        "Richmond",
		"  Sydney ":       "Sydney Swans",
		"Kangaroos":       "North Melbourne",
		"GWS":             "GWS GIANTS",
		"Gold   Coast":    "Gold Coast SUNS",
		"Footscray":       "Western Bulldogs",
		"Unknown  Club":   "Unknown Club",
	}
	for in, want := range cases {
		if got := Canonical(in); got != want {
			t.Fatalf("unexpected canonical name for %q: got=%q want=%q", in, got, want)
		}
	}
}

func TestIsNickname(t *testing.T) {
	if !IsNickname("Magpies") {
		t.Fatalf("expected Magpies to be a nickname")
	}
	if IsNickname("Collingwood") {
		t.Fatalf("expected Collingwood not to be a nickname")
	}
}

func TestSame(t *testing.T) {
	if !Same("Cats", "Geelong") {
		t.Fatalf("expected Cats and Geelong to be the same club")
	}
	if Same("Cats", "Hawks") {
		t.Fatalf("expected Cats and Hawks to differ")
	}
	if len(All()) != 18 {
		t.Fatalf("unexpected club count: got=%d want=18", len(All()))
	}
}
