package util

import "testing"

func TestArenaMarkReset(t *testing.T) {
	a := NewArena()
	a.Track(1)
	a.Track(2)
	mark := a.Mark()
	a.Track(3)
	a.Track(4)
	if a.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", a.Len())
	}
	a.Reset(mark)
	if a.Len() != 2 {
		t.Fatalf("Len() after reset = %d, want 2", a.Len())
	}
}

func TestDiagnosticsReportAndAll(t *testing.T) {
	d := NewDiagnostics(0)
	d.Report(Range{File: "a.vsl", FirstLine: 1, FirstCol: 1}, "boom", nil)
	d.Report(Range{File: "b.vsl", FirstLine: 2, FirstCol: 3}, "bang", nil)
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if !d.Failing() {
		t.Error("Failing() = false, want true")
	}
	all := d.All()
	if all[0].Message != "boom" || all[1].Message != "bang" {
		t.Errorf("unexpected diagnostic order: %+v", all)
	}
}

func TestNamer(t *testing.T) {
	n := NewNamer("const")
	a := n.Next()
	b := n.Next()
	if a == b {
		t.Errorf("Namer produced duplicate names: %q", a)
	}
	if a != "const_000" || b != "const_001" {
		t.Errorf("got %q, %q; want const_000, const_001", a, b)
	}
}
