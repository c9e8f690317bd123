package lexer

import "testing"

func kinds(segs []Segment) []SegKind {
	out := make([]SegKind, len(segs))
	for i, s := range segs {
		out[i] = s.Kind
	}
	return out
}

func TestScanCoversWholeText(t *testing.T) {
	src := []byte(`int main(void){ printf("hi // not a comment"); /* c */ return 0; }`)
	segs := Scan(src)

	if len(segs) == 0 {
		t.Fatal("no segments")
	}
	if segs[0].Start != 0 || segs[len(segs)-1].End != uint32(len(src)) {
		t.Errorf("segments do not cover text: first=%d last=%d len=%d",
			segs[0].Start, segs[len(segs)-1].End, len(src))
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].Start != segs[i-1].End {
			t.Errorf("gap between segment %d and %d", i-1, i)
		}
	}
}

func TestScanClassification(t *testing.T) {
	src := []byte("a \"s\" 'c' // line\nb /* block */ c")
	got := kinds(Scan(src))
	want := []SegKind{
		SegCode, SegString, SegCode, SegChar, SegCode,
		SegLineComment, SegCode, SegBlockComment, SegCode,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanStringEscapes(t *testing.T) {
	src := []byte(`"a\"b" x`)
	segs := Scan(src)
	if segs[0].Kind != SegString {
		t.Fatalf("first segment %v, want string", segs[0].Kind)
	}
	if string(src[segs[0].Start:segs[0].End]) != `"a\"b"` {
		t.Errorf("string segment = %q", src[segs[0].Start:segs[0].End])
	}
}

func TestScanRunawayLiteralStopsAtNewline(t *testing.T) {
	src := []byte("\"open\nint x;\n")
	segs := Scan(src)
	if segs[0].Kind != SegString || src[segs[0].End] != '\n' {
		t.Errorf("runaway string should end before the newline, segs=%v", segs)
	}
	last := segs[len(segs)-1]
	if last.Kind != SegCode {
		t.Errorf("text after the runaway literal must be code again")
	}
}

func TestScanUnclosedBlockComment(t *testing.T) {
	src := []byte("x /* never closed")
	segs := Scan(src)
	last := segs[len(segs)-1]
	if last.Kind != SegBlockComment || last.End != uint32(len(src)) {
		t.Errorf("unclosed block comment should run to EOF, segs=%v", segs)
	}
}

func TestCodeSegments(t *testing.T) {
	src := []byte(`a "s" b /* c */ d`)
	code := CodeSegments(src)
	if len(code) != 3 {
		t.Fatalf("got %d code segments, want 3", len(code))
	}
	for _, s := range code {
		if s.Kind != SegCode {
			t.Errorf("non-code segment %v", s.Kind)
		}
	}
}

func TestIsWordAt(t *testing.T) {
	src := []byte("letter let lets let")
	if IsWordAt(src, 0, "let") {
		t.Error("prefix of a longer identifier must not match")
	}
	if !IsWordAt(src, 7, "let") {
		t.Error("whole word should match")
	}
	if IsWordAt(src, 11, "let") {
		t.Error("lets is not let")
	}
	if !IsWordAt(src, 16, "let") {
		t.Error("word at end of text should match")
	}
}

func TestScanIdent(t *testing.T) {
	src := []byte("foo_2 bar")
	if end := ScanIdent(src, 0); end != 5 {
		t.Errorf("end = %d, want 5", end)
	}
	if end := ScanIdent(src, 5); end != 5 {
		t.Errorf("space is not an identifier start, end = %d", end)
	}
}
