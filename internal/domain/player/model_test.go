package player

import (
	"reflect"
	"testing"
)

func TestParseID(t *testing.T) {
	cases := []struct {
		raw   string
		valid bool
		ok    bool
		want  int64
	}{
		{raw: "12345", valid: true, ok: true, want: 12345},
		{raw: "12345.0", valid: true, ok: true, want: 12345},
		{raw: "", valid: false, ok: true},
		{raw: "NA", valid: false, ok: true},
		{raw: "abc", valid: false, ok: false},
		{raw: "12.5", valid: false, ok: false},
	}

	for _, tc := range cases {
		got, ok := ParseID(tc.raw)
		if ok != tc.ok {
			t.Fatalf("unexpected ok for %q: got=%v want=%v", tc.raw, ok, tc.ok)
		}
		if got.Valid() != tc.valid {
			t.Fatalf("unexpected validity for %q: got=%v want=%v", tc.raw, got.Valid(), tc.valid)
		}
		if v, _ := got.Int64(); tc.valid && v != tc.want {
			t.Fatalf("unexpected id for %q: got=%d want=%d", tc.raw, v, tc.want)
		}
	}
}

func TestZeroIDIsUnknown(t *testing.T) {
	var id ID
	if id.Valid() {
		t.Fatalf("expected zero id to be unknown")
	}
	if !NewID(0).Valid() {
		t.Fatalf("expected explicit zero id to be known")
	}
	b, _ := id.MarshalJSON()
	if string(b) != "null" {
		t.Fatalf("expected null json for unknown id, got=%s", b)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Dustin   Martin ": "dustin martin",
		"Jack Ginnivan-Smith": "jack ginnivan smith",
		"D'Arcy  Moore":       "d arcy moore",
		"T. Xerri":            "t xerri",
		"Sam Mc Kay":          "sam mckay",
		"Harry McKay":         "harry mckay",
		"Mac Andrew":          "mac andrew",
		"Sam Mac":             "sam mac",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("unexpected normalized name for %q: got=%q want=%q", in, got, want)
		}
	}
}

func TestNameVariants(t *testing.T) {
	got := NameVariants("Tom Stewart")
	if !reflect.DeepEqual(got, []string{"thomas stewart"}) {
		t.Fatalf("unexpected variants: %v", got)
	}
	got = NameVariants("Nick Daicos")
	if !reflect.DeepEqual(got, []string{"nicholas daicos", "nic daicos"}) {
		t.Fatalf("unexpected variants: %v", got)
	}
	got = NameVariants("Sam Mc Kay")
	if !reflect.DeepEqual(got, []string{"samuel mckay"}) {
		t.Fatalf("unexpected variants: %v", got)
	}
	if NameVariants("Madonna") != nil {
		t.Fatalf("expected no variants for single-word name")
	}
}
