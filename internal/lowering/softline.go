package lowering

import (
	"strings"

	"cscript/internal/lexer"
)

// lowerFns переписывает оба вида fn-объявлений:
//
//	fn N(P) -> T => E;   →  static inline T N(P){ return (E); }
//	fn N(P) -> T {       →  T N(P){
//
// P, T и E — непрозрачные спаны, копируются дословно. Горячие функции
// получают CS_HOT, инструментированные — вызов cs_prof_hit в начале тела.
// Вторым результатом возвращает имена опущенных функций.
func lowerFns(src []byte, opts Options) ([]byte, []string) {
	mask := kindMask(src)
	buf := newEditBuf(src)
	var fns []string

	i := 0
	for {
		kw := findWord(src, mask, i, "fn")
		if kw < 0 {
			break
		}

		nameStart := skipWS(src, mask, kw+len("fn"))
		nameEnd := lexer.ScanIdent(src, nameStart)
		if nameEnd == nameStart {
			i = kw + len("fn")
			continue
		}
		name := string(src[nameStart:nameEnd])

		parOpen := skipWS(src, mask, nameEnd)
		if parOpen >= len(src) || src[parOpen] != '(' {
			i = nameEnd
			continue
		}
		parClose := matchDelim(src, mask, parOpen, '(', ')')
		if parClose < 0 {
			i = nameEnd
			continue
		}
		params := string(src[parOpen+1 : parClose])

		arrow := skipWS(src, mask, parClose+1)
		if arrow+1 >= len(src) || src[arrow] != '-' || src[arrow+1] != '>' {
			i = parClose
			continue
		}

		// тип возврата — до `=>`, `{`, `;` или конца строки
		retStart := skipWS(src, mask, arrow+2)
		j := retStart
		form := byte(0)
		for j < len(src) {
			if !isCode(mask, j) {
				j++
				continue
			}
			b := src[j]
			if b == '{' || b == ';' || b == '\n' {
				form = b
				break
			}
			if b == '=' && j+1 < len(src) && src[j+1] == '>' {
				form = '='
				break
			}
			j++
		}
		retty := strings.TrimSpace(string(src[retStart:j]))
		if retty == "" {
			i = arrow + 2
			continue
		}

		hot := opts.Hot[name]
		switch form {
		case '=': // выражение: до первого `;` на этой же строке
			exprStart := skipWS(src, mask, j+2)
			semi := scanUntil(src, mask, exprStart, ";\n")
			if semi < 0 || src[semi] != ';' {
				i = j + 2
				continue
			}
			expr := strings.TrimSpace(string(src[exprStart:semi]))

			buf.copyTo(kw)
			if hot {
				buf.emit("static CS_HOT inline ")
			} else {
				buf.emit("static inline ")
			}
			buf.emit(retty + " " + name + "(" + params + "){ ")
			if opts.Instrument {
				buf.emit("cs_prof_hit(\"" + name + "\"); ")
			}
			buf.emit("return (" + expr + "); }")
			buf.skipTo(semi + 1)
			fns = append(fns, name)
			i = semi + 1
		case '{': // блочная форма: переписываем только заголовок
			buf.copyTo(kw)
			if hot {
				buf.emit("CS_HOT ")
			}
			buf.emit(retty + " " + name + "(" + params + "){ ")
			if opts.Instrument {
				buf.emit("cs_prof_hit(\"" + name + "\"); ")
			}
			buf.skipTo(j + 1)
			fns = append(fns, name)
			i = j + 1
		default:
			i = j
		}
	}
	return buf.finish(), fns
}

// lowerBindings: `let ` → `const `, `var ` → стирается вместе с пробелами.
func lowerBindings(src []byte) []byte {
	mask := kindMask(src)
	buf := newEditBuf(src)

	for i := 0; i < len(src); {
		if !isCode(mask, i) {
			i++
			continue
		}
		var word string
		switch {
		case lexer.IsWordAt(src, i, "let"):
			word = "let"
		case lexer.IsWordAt(src, i, "var"):
			word = "var"
		default:
			i++
			continue
		}
		wsEnd := i + len(word)
		for wsEnd < len(src) && (src[wsEnd] == ' ' || src[wsEnd] == '\t' ||
			src[wsEnd] == '\r' || src[wsEnd] == '\n') {
			wsEnd++
		}
		if wsEnd == i+len(word) {
			// `let;` и подобное — не биндинг
			i += len(word)
			continue
		}
		buf.copyTo(i)
		if word == "let" {
			buf.emit("const ")
		}
		buf.skipTo(wsEnd)
		i = wsEnd
	}
	return buf.finish()
}
