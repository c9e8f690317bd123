package lowering

import (
	"fmt"
	"strings"

	"cscript/internal/diag"
	"cscript/internal/lexer"
	"cscript/internal/source"
)

// lowerEnums переписывает каждый `enum! N { ... }` в настоящий typedef enum
// плюс предикат валидности и assert-помощник, и собирает варианты в порядке
// объявления. Повторное имя — ошибка, первая декларация остаётся в силе.
func lowerEnums(fileID source.FileID, src []byte, reporter diag.Reporter) ([]byte, []EnumDecl) {
	mask := kindMask(src)
	buf := newEditBuf(src)
	var enums []EnumDecl
	seen := map[string]source.Span{}

	i := 0
	for {
		kw := findWord(src, mask, i, "enum")
		if kw < 0 {
			break
		}
		// именно enum! — обычный enum не трогаем
		bang := kw + len("enum")
		if bang >= len(src) || src[bang] != '!' || !isCode(mask, bang) {
			i = bang
			continue
		}

		nameStart := skipWS(src, mask, bang+1)
		nameEnd := lexer.ScanIdent(src, nameStart)
		if nameEnd == nameStart {
			i = bang
			continue
		}
		name := string(src[nameStart:nameEnd])
		nameSpan := source.Span{File: fileID, Start: uint32(nameStart), End: uint32(nameEnd)}

		open := skipWS(src, mask, nameEnd)
		if open >= len(src) || src[open] != '{' {
			diag.ReportError(reporter, diag.LowMalformedEnum, nameSpan,
				fmt.Sprintf("enum! %s: expected '{' after the name", name))
			i = nameEnd
			continue
		}
		closeIdx := matchDelim(src, mask, open, '{', '}')
		if closeIdx < 0 {
			diag.ReportError(reporter, diag.LowMalformedEnum, nameSpan,
				fmt.Sprintf("enum! %s: unterminated variant list", name))
			i = nameEnd
			continue
		}

		body := string(src[open+1 : closeIdx])
		variants := splitVariants(body)
		if len(variants) == 0 {
			diag.ReportError(reporter, diag.LowMalformedEnum, nameSpan,
				fmt.Sprintf("enum! %s: empty variant list", name))
			i = closeIdx + 1
			continue
		}

		if prev, dup := seen[name]; dup {
			if reporter != nil {
				reporter.Report(diag.LowDuplicateEnum, diag.SevError, nameSpan,
					fmt.Sprintf("enum %q is already declared", name),
					[]diag.Note{{Span: prev, Msg: "first declaration is here"}})
			}
			// первая декларация победила: эту вырезаем без эмиссии
			buf.copyTo(kw)
			buf.skipTo(closeIdx + 1)
			i = closeIdx + 1
			continue
		}
		seen[name] = nameSpan
		enums = append(enums, EnumDecl{Name: name, Variants: variants, Span: nameSpan})

		buf.copyTo(kw)
		buf.emit(emitEnum(name, body, variants))
		buf.skipTo(closeIdx + 1)
		i = closeIdx + 1
	}
	return buf.finish(), enums
}

// splitVariants разбивает тело enum по запятым и отбрасывает `= value`.
func splitVariants(body string) []string {
	var names []string
	for _, tok := range strings.Split(body, ",") {
		ident, _, _ := strings.Cut(tok, "=")
		ident = strings.TrimSpace(ident)
		if ident != "" {
			names = append(names, ident)
		}
	}
	return names
}

func emitEnum(name, body string, variants []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "typedef enum %s {%s} %s;\n", name, body, name)

	fmt.Fprintf(&b, "static inline int cs__enum_is_valid_%s(int v){ switch((%s)v){ ", name, name)
	for _, v := range variants {
		fmt.Fprintf(&b, "case %s: ", v)
	}
	b.WriteString("return 1; default: return 0; } }\n")

	fmt.Fprintf(&b, "static inline void cs__enum_assert_%s(int v){\n", name)
	b.WriteString("#if defined(CS_HARDLINE)\n")
	fmt.Fprintf(&b, "  if(!cs__enum_is_valid_%s(v)){\n", name)
	fmt.Fprintf(&b,
		"    fprintf(stderr,\"[C-Script hardline] Non-exhaustive switch for enum %s (value %%d)\\n\", v);\n",
		name)
	b.WriteString("    abort();\n  }\n#else\n  (void)v;\n#endif\n}")
	return b.String()
}
