package normalization

import "testing"

func TestThemeKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Imposter Syndrome", "imposter syndrome"},
		{"  imposter   syndrome ", "imposter syndrome"},
		{"IMPOSTER\tSYNDROME\n", "imposter syndrome"},
		{"ＩＭＰＯＳＴＥＲ syndrome", "imposter syndrome"},
		{"Straße", "strasse"},
		{"scope creep", "scope creep"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := ThemeKey(tc.in); got != tc.want {
			t.Fatalf("ThemeKey(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}

func TestThemeKeyMatchesVariants(t *testing.T) {
	a := ThemeKey("Scope Creep")
	b := ThemeKey("scope  creep")
	if a != b {
		t.Fatalf("variants: want equal keys got=%q %q", a, b)
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := DisplayLabel("  Managing   Up "); got != "Managing Up" {
		t.Fatalf("DisplayLabel: got=%q", got)
	}
}

func TestParseInputStringPtr(t *testing.T) {
	blank := "   "
	if ParseInputStringPtr(&blank) != nil {
		t.Fatalf("blank: want nil")
	}
	v := " staff "
	if got := ParseInputStringPtr(&v); got == nil || *got != "staff" {
		t.Fatalf("trim: got=%v", got)
	}
	if ParseInputStringPtr(nil) != nil {
		t.Fatalf("nil: want nil")
	}
}
