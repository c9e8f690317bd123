package lowering

import (
	"fmt"
	"strings"

	"cscript/internal/diag"
	"cscript/internal/lexer"
	"cscript/internal/source"
)

// matchArm — один разобранный рукав `P => B;`.
type matchArm struct {
	pattern string
	body    string
}

// lowerMatch переписывает `match (S) { P => B; ... }` в цепочку if/else над
// однократно вычисленным S:
//
//	do { __typeof__((S)) __cs_m = (S); if (...) {...} else {...} } while (0)
//
// Виды паттернов: `_` (хвостовой else, синтезируется пустым, если отсутствует),
// скалярная альтернация через `|` (равенство с кэшированным значением),
// кортеж из 2-3 имён (привязывает поля _0.._2 перед телом рукава).
func lowerMatch(src []byte, fileID source.FileID, reporter diag.Reporter) []byte {
	// тела рукавов копируются дословно, поэтому вложенный match всплывает в
	// выходе первого прохода; повторяем до неподвижной точки
	for {
		out, rewrites := lowerMatchPass(src, fileID, reporter)
		if rewrites == 0 {
			return out
		}
		src = out
	}
}

func lowerMatchPass(src []byte, fileID source.FileID, reporter diag.Reporter) ([]byte, int) {
	mask := kindMask(src)
	buf := newEditBuf(src)
	rewrites := 0

	i := 0
	for {
		kw := findWord(src, mask, i, "match")
		if kw < 0 {
			break
		}
		span := source.Span{File: fileID, Start: uint32(kw), End: uint32(kw + len("match"))}

		parOpen := skipWS(src, mask, kw+len("match"))
		if parOpen >= len(src) || src[parOpen] != '(' {
			i = kw + len("match")
			continue
		}
		parClose := matchDelim(src, mask, parOpen, '(', ')')
		if parClose < 0 {
			diag.ReportError(reporter, diag.LowMalformedMatch, span,
				"match: unterminated scrutinee")
			i = kw + len("match")
			continue
		}
		scrutinee := strings.TrimSpace(string(src[parOpen+1 : parClose]))

		braceOpen := skipWS(src, mask, parClose+1)
		if braceOpen >= len(src) || src[braceOpen] != '{' {
			i = parClose
			continue
		}
		braceClose := matchDelim(src, mask, braceOpen, '{', '}')
		if braceClose < 0 {
			diag.ReportError(reporter, diag.LowMalformedMatch, span,
				"match: unterminated arm list")
			i = braceOpen
			continue
		}

		arms, ok := parseArms(src, mask, braceOpen+1, braceClose)
		if !ok {
			diag.ReportError(reporter, diag.LowMalformedMatch, span,
				"match: expected arms of the form `pattern => body;`")
			i = braceClose + 1
			continue
		}

		buf.copyTo(kw)
		buf.emit(emitMatch(scrutinee, arms))
		// do-while требует точку с запятой; добавляем, если её нет в исходнике
		if next := skipWS(src, mask, braceClose+1); next >= len(src) || src[next] != ';' {
			buf.emit(";")
		}
		buf.skipTo(braceClose + 1)
		i = braceClose + 1
		rewrites++
	}
	return buf.finish(), rewrites
}

// parseArms разбирает рукава между lo и hi. Паттерн — до `=>` на нулевой
// глубине, тело — до `;` (блок `{...}` целиком, `;` после него необязательна).
func parseArms(src []byte, mask []lexer.SegKind, lo, hi int) ([]matchArm, bool) {
	var arms []matchArm
	i := skipWS(src, mask, lo)
	for i < hi {
		arrow := -1
		depth := 0
		for j := i; j < hi; j++ {
			if !isCode(mask, j) {
				continue
			}
			switch src[j] {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			case '=':
				if depth == 0 && j+1 < hi && src[j+1] == '>' {
					arrow = j
				}
			}
			if arrow >= 0 {
				break
			}
		}
		if arrow < 0 {
			return nil, false
		}
		pattern := strings.TrimSpace(string(src[i:arrow]))
		if pattern == "" {
			return nil, false
		}

		bodyStart := skipWS(src, mask, arrow+2)
		if bodyStart >= hi {
			return nil, false
		}
		var body string
		var next int
		if src[bodyStart] == '{' {
			end := matchDelim(src, mask, bodyStart, '{', '}')
			if end < 0 || end >= hi {
				return nil, false
			}
			body = string(src[bodyStart : end+1])
			next = skipWS(src, mask, end+1)
			if next < hi && src[next] == ';' {
				next++
			}
		} else {
			semi := scanUntil(src, mask, bodyStart, ";")
			if semi < 0 || semi >= hi {
				return nil, false
			}
			body = strings.TrimSpace(string(src[bodyStart:semi])) + ";"
			next = semi + 1
		}

		arms = append(arms, matchArm{pattern: pattern, body: body})
		i = skipWS(src, mask, next)
	}
	return arms, len(arms) > 0
}

func emitMatch(scrutinee string, arms []matchArm) string {
	var b strings.Builder
	fmt.Fprintf(&b, "do { __typeof__((%s)) __cs_m = (%s); ", scrutinee, scrutinee)

	wroteIf := false
	sawWildcard := false
	for _, arm := range arms {
		if arm.pattern == "_" {
			if wroteIf {
				b.WriteString("else ")
			}
			b.WriteString(armBlock(arm.body, nil))
			sawWildcard = true
			break // рукава после wildcard недостижимы
		}
		if wroteIf {
			b.WriteString("else ")
		}
		if names, ok := tuplePattern(arm.pattern); ok {
			b.WriteString("if (1) ")
			b.WriteString(armBlock(arm.body, names))
		} else {
			fmt.Fprintf(&b, "if (%s) ", alternationCond(arm.pattern))
			b.WriteString(armBlock(arm.body, nil))
		}
		b.WriteString(" ")
		wroteIf = true
	}
	if !sawWildcard {
		if wroteIf {
			b.WriteString("else { } ")
		} else {
			b.WriteString("{ } ")
		}
	} else {
		b.WriteString(" ")
	}
	b.WriteString("} while (0)")
	return b.String()
}

// alternationCond строит равенство-ИЛИ для скалярного паттерна `a | b | c`.
// Разделитель — только кодовый `|` на нулевой глубине скобок: `'|'` в
// символьном литерале альтернативой не является.
func alternationCond(pattern string) string {
	src := []byte(pattern)
	mask := kindMask(src)
	var conds []string
	start := 0
	depth := 0
	for i := 0; i < len(src); i++ {
		if !isCode(mask, i) {
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '|':
			if depth == 0 {
				conds = append(conds, fmt.Sprintf("__cs_m == (%s)", strings.TrimSpace(string(src[start:i]))))
				start = i + 1
			}
		}
	}
	conds = append(conds, fmt.Sprintf("__cs_m == (%s)", strings.TrimSpace(string(src[start:]))))
	return strings.Join(conds, " || ")
}

// tuplePattern распознаёт `(a, b)` или `(a, b, c)` из свежих имён.
func tuplePattern(pattern string) ([]string, bool) {
	if !strings.HasPrefix(pattern, "(") || !strings.HasSuffix(pattern, ")") {
		return nil, false
	}
	parts := strings.Split(pattern[1:len(pattern)-1], ",")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, false
	}
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if lexer.ScanIdent([]byte(name), 0) != len(name) || name == "" {
			return nil, false
		}
		names = append(names, name)
	}
	return names, true
}

// armBlock оборачивает тело рукава в блок; binds — имена кортежного паттерна,
// привязываемые к позиционным полям перед телом.
func armBlock(body string, binds []string) string {
	var b strings.Builder
	b.WriteString("{ ")
	for idx, name := range binds {
		fmt.Fprintf(&b, "__typeof__(__cs_m._%d) %s = __cs_m._%d; ", idx, name, idx)
	}
	if strings.HasPrefix(body, "{") {
		inner := strings.TrimSuffix(strings.TrimPrefix(body, "{"), "}")
		b.WriteString(strings.TrimSpace(inner))
	} else {
		b.WriteString(body)
	}
	b.WriteString(" }")
	return b.String()
}
