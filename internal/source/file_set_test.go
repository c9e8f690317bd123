package source

import (
	"testing"
)

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// "a\nb\n" должен дать LineIdx = [1,3]
	id := fs.AddVirtual("a.csc", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Errorf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}

	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}

	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestCRLFNormalization(t *testing.T) {
	original := []byte("a\r\nb\r\n")
	normalized, changed := normalizeCRLF(original)

	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}

	expected := []byte("a\nb\n")
	if string(normalized) != string(expected) {
		t.Errorf("Expected normalized content %q, got %q", string(expected), string(normalized))
	}
}

func TestResolveSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.csc", []byte("@opt O2\nfn add() -> int => 1;\n"))

	// "fn" начинается на смещении 8, это строка 2, колонка 1
	start, _ := fs.Resolve(Span{File: id, Start: 8, End: 10})
	if start.Line != 2 || start.Col != 1 {
		t.Errorf("Resolve = %d:%d, want 2:1", start.Line, start.Col)
	}
}

func TestResolveOffsets(t *testing.T) {
	fs := NewFileSet()
	//                            0123456 7890123 456
	id := fs.AddVirtual("m.csc", []byte("one x;\ntwo y;\nend"))

	cases := []struct {
		off       uint32
		line, col uint32
	}{
		{0, 1, 1},   // начало файла
		{5, 1, 6},   // внутри первой строки
		{6, 1, 7},   // сам перевод строки принадлежит своей строке
		{7, 2, 1},   // первый байт второй строки
		{13, 2, 7},  // перевод строки второй строки
		{14, 3, 1},  // последняя строка без завершающего \n
		{16, 3, 3},
	}
	for _, c := range cases {
		got, _ := fs.Resolve(Span{File: id, Start: c.off, End: c.off})
		if got.Line != c.line || got.Col != c.col {
			t.Errorf("Resolve(%d) = %d:%d, want %d:%d", c.off, got.Line, got.Col, c.line, c.col)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.csc", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	cases := []struct {
		line uint32
		want string
	}{
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
		{0, ""},
	}
	for _, c := range cases {
		if got := f.GetLine(c.line); got != c.want {
			t.Errorf("GetLine(%d) = %q, want %q", c.line, got, c.want)
		}
	}

	if f.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", f.LineCount())
	}
}

func TestGetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("dir/m.csc", []byte("x"))

	if _, ok := fs.GetByPath("dir/m.csc"); !ok {
		t.Error("Expected GetByPath to find the file")
	}
	if _, ok := fs.GetByPath("missing.csc"); ok {
		t.Error("Expected GetByPath to miss unknown path")
	}
}
