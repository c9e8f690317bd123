package lexer

// IsIdentStart reports whether b can start a C identifier.
func IsIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// IsIdentPart reports whether b can continue a C identifier.
func IsIdentPart(b byte) bool {
	return IsIdentStart(b) || (b >= '0' && b <= '9')
}

// ScanIdent возвращает конец идентификатора, начинающегося в src[i].
// Если src[i] не начинает идентификатор, возвращает i.
func ScanIdent(src []byte, i int) int {
	if i >= len(src) || !IsIdentStart(src[i]) {
		return i
	}
	j := i + 1
	for j < len(src) && IsIdentPart(src[j]) {
		j++
	}
	return j
}

// IsWordAt reports whether word occupies src[i:i+len(word)] as a whole
// identifier, not as a substring of a longer one.
func IsWordAt(src []byte, i int, word string) bool {
	if i+len(word) > len(src) || string(src[i:i+len(word)]) != word {
		return false
	}
	if i > 0 && IsIdentPart(src[i-1]) {
		return false
	}
	j := i + len(word)
	return j >= len(src) || !IsIdentPart(src[j])
}

// SkipSpace returns the first index >= i whose byte is not a space or tab.
func SkipSpace(src []byte, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}
