// Package lexer разбивает C-текст на сегменты: код, строковые и символьные
// литералы, комментарии. Переписывающие проходы работают только внутри
// кодовых сегментов, поэтому литералы и комментарии никогда не трогаются.
package lexer

// SegKind classifies one contiguous run of bytes.
type SegKind uint8

const (
	SegCode SegKind = iota
	SegString
	SegChar
	SegLineComment
	SegBlockComment
)

func (k SegKind) String() string {
	switch k {
	case SegCode:
		return "code"
	case SegString:
		return "string"
	case SegChar:
		return "char"
	case SegLineComment:
		return "line-comment"
	case SegBlockComment:
		return "block-comment"
	}
	return "unknown"
}

// Segment is a half-open byte range [Start, End) of a single kind.
type Segment struct {
	Kind  SegKind
	Start uint32
	End   uint32
}

// Scan partitions src into segments. The segments are adjacent, cover the
// whole text, and never overlap. Незакрытый литерал обрывается на конце
// строки, незакрытый блочный комментарий — на конце текста; для целей
// переписывания этого достаточно, ошибку выдаст компилятор C.
func Scan(src []byte) []Segment {
	var segs []Segment
	c := NewCursor(src)
	codeStart := c.Off

	flushCode := func(end uint32) {
		if end > codeStart {
			segs = append(segs, Segment{Kind: SegCode, Start: codeStart, End: end})
		}
	}

	for !c.EOF() {
		b0, b1, ok2 := c.Peek2()
		if !ok2 {
			b0 = c.Peek()
		}
		switch {
		case b0 == '"':
			start := c.Off
			flushCode(start)
			c.Bump()
			scanQuoted(&c, '"')
			segs = append(segs, Segment{Kind: SegString, Start: start, End: c.Off})
			codeStart = c.Off
		case b0 == '\'':
			start := c.Off
			flushCode(start)
			c.Bump()
			scanQuoted(&c, '\'')
			segs = append(segs, Segment{Kind: SegChar, Start: start, End: c.Off})
			codeStart = c.Off
		case ok2 && b0 == '/' && b1 == '/':
			start := c.Off
			flushCode(start)
			for !c.EOF() && c.Peek() != '\n' {
				c.Bump()
			}
			segs = append(segs, Segment{Kind: SegLineComment, Start: start, End: c.Off})
			codeStart = c.Off
		case ok2 && b0 == '/' && b1 == '*':
			start := c.Off
			flushCode(start)
			c.Bump()
			c.Bump()
			for !c.EOF() {
				if c.Bump() == '*' && c.Eat('/') {
					break
				}
			}
			segs = append(segs, Segment{Kind: SegBlockComment, Start: start, End: c.Off})
			codeStart = c.Off
		default:
			c.Bump()
		}
	}
	flushCode(c.Off)
	return segs
}

// scanQuoted consumes bytes until the closing quote. Backslash escapes the
// next byte; a newline terminates a runaway literal.
func scanQuoted(c *Cursor, quote byte) {
	for !c.EOF() {
		b := c.Peek()
		if b == '\n' {
			return
		}
		c.Bump()
		if b == '\\' && !c.EOF() && c.Peek() != '\n' {
			c.Bump()
			continue
		}
		if b == quote {
			return
		}
	}
}

// CodeSegments returns only the SegCode segments of src.
func CodeSegments(src []byte) []Segment {
	var code []Segment
	for _, s := range Scan(src) {
		if s.Kind == SegCode {
			code = append(code, s)
		}
	}
	return code
}
