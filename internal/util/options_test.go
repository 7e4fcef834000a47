package util

import "testing"

// TestValidMode verifies the corrected -mode validation (Open Question 1): accept
// exactly "debug" and "release", reject everything else including the empty string.
func TestValidMode(t *testing.T) {
	cases := []struct {
		mode string
		want bool
	}{
		{"debug", true},
		{"release", true},
		{"", false},
		{"Debug", false},
		{"production", false},
	}
	for _, c := range cases {
		if got := ValidMode(c.mode); got != c.want {
			t.Errorf("ValidMode(%q) = %v, want %v", c.mode, got, c.want)
		}
	}
}

func TestParseArgsDefaults(t *testing.T) {
	opt, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt.Mode != "debug" {
		t.Errorf("default mode = %q, want %q", opt.Mode, "debug")
	}
}

func TestParseArgsSource(t *testing.T) {
	opt, err := ParseArgs([]string{"-mode", "release", "-vb", "main.vsl"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if opt.Src != "main.vsl" {
		t.Errorf("Src = %q, want %q", opt.Src, "main.vsl")
	}
	if opt.Mode != "release" {
		t.Errorf("Mode = %q, want %q", opt.Mode, "release")
	}
	if !opt.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestParseArgsRejectsBadMode(t *testing.T) {
	if _, err := ParseArgs([]string{"-mode", "fast"}); err == nil {
		t.Fatal("expected error for invalid -mode, got nil")
	}
}
