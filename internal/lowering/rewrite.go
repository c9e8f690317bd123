package lowering

import (
	"cscript/internal/lexer"
)

// editBuf накапливает переписанный текст: копирует нетронутые куски src и
// вставляет замены.
type editBuf struct {
	src []byte
	out []byte
	pos int // следующий некопированный индекс src
}

func newEditBuf(src []byte) editBuf {
	return editBuf{src: src, out: make([]byte, 0, len(src)+len(src)/8)}
}

// copyTo копирует src[pos:i] в выход.
func (e *editBuf) copyTo(i int) {
	e.out = append(e.out, e.src[e.pos:i]...)
	e.pos = i
}

// skipTo пропускает src[pos:i], не копируя.
func (e *editBuf) skipTo(i int) {
	e.pos = i
}

func (e *editBuf) emit(s string) {
	e.out = append(e.out, s...)
}

func (e *editBuf) finish() []byte {
	e.copyTo(len(e.src))
	return e.out
}

// kindMask строит побайтовую классификацию текста; проходы смотрят в неё,
// чтобы не переписывать внутри литералов и комментариев.
func kindMask(src []byte) []lexer.SegKind {
	mask := make([]lexer.SegKind, len(src))
	for _, s := range lexer.Scan(src) {
		for i := s.Start; i < s.End; i++ {
			mask[i] = s.Kind
		}
	}
	return mask
}

func isCode(mask []lexer.SegKind, i int) bool {
	return i < len(mask) && mask[i] == lexer.SegCode
}

// skipWS пропускает пробельные байты и некодовые сегменты (комментарий между
// токенами эквивалентен пробелу).
func skipWS(src []byte, mask []lexer.SegKind, i int) int {
	for i < len(src) {
		if !isCode(mask, i) {
			i++
			continue
		}
		switch src[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}

// matchDelim возвращает индекс байта, закрывающего src[open] (скобка или
// фигурная скобка), с учётом вложенности; считает только кодовые байты.
// -1, если пара не закрыта.
func matchDelim(src []byte, mask []lexer.SegKind, open int, openB, closeB byte) int {
	depth := 0
	for i := open; i < len(src); i++ {
		if !isCode(mask, i) {
			continue
		}
		switch src[i] {
		case openB:
			depth++
		case closeB:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// scanUntil возвращает первый индекс >= i, где в кодовом сегменте на нулевой
// глубине скобок встречается один из байтов stop. -1, если не найден.
func scanUntil(src []byte, mask []lexer.SegKind, i int, stop string) int {
	depth := 0
	for ; i < len(src); i++ {
		if !isCode(mask, i) {
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		if depth == 0 {
			for j := 0; j < len(stop); j++ {
				if src[i] == stop[j] {
					return i
				}
			}
		}
		if depth < 0 {
			return -1
		}
	}
	return -1
}

// findWord ищет слово word как целый идентификатор в кодовом сегменте,
// начиная с from. -1, если не найдено.
func findWord(src []byte, mask []lexer.SegKind, from int, word string) int {
	for i := from; i+len(word) <= len(src); i++ {
		if !isCode(mask, i) || src[i] != word[0] {
			continue
		}
		if lexer.IsWordAt(src, i, word) && isCode(mask, i+len(word)-1) {
			return i
		}
	}
	return -1
}
