package source

import "testing"

func TestSpanBasics(t *testing.T) {
	s := Span{File: 0, Start: 3, End: 7}
	if s.Empty() {
		t.Error("Expected non-empty span")
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
	if s.String() != "0:3-7" {
		t.Errorf("String = %q", s.String())
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 0, Start: 5, End: 10}
	b := Span{File: 0, Start: 2, End: 8}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 10 {
		t.Errorf("Cover = %v", c)
	}

	// другой файл — игнорируется
	d := a.Cover(Span{File: 1, Start: 0, End: 100})
	if d != a {
		t.Errorf("Cover across files = %v, want %v", d, a)
	}
}
