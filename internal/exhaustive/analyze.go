// Package exhaustive проверяет размеченные CS_SWITCH_EXHAUSTIVE-регионы
// опущенного текста против собранных enum!-деклараций. Обычные switch не
// трогаются. Все регионы единицы проверяются до отчёта: диагностики
// батчируются, а не обрываются на первой.
package exhaustive

import (
	"fmt"
	"strings"

	"cscript/internal/diag"
	"cscript/internal/lexer"
	"cscript/internal/lowering"
	"cscript/internal/source"
)

const (
	beginMarker = "CS_SWITCH_EXHAUSTIVE("
	endMarker   = "CS_SWITCH_END("
	caseMarker  = "CS_CASE"
)

// Region — один разобранный регион: заявленный enum и покрытые метки.
type Region struct {
	Enum    string
	Covered []string
	Span    source.Span // маркер начала региона
}

// Analyze находит все регионы в lowered и сверяет каждый с декларациями.
// fileID — виртуальный файл, под которым опущенный текст лежит в FileSet.
func Analyze(fileID source.FileID, lowered []byte, enums []lowering.EnumDecl, reporter diag.Reporter) {
	decls := make(map[string]lowering.EnumDecl, len(enums))
	for _, e := range enums {
		decls[e.Name] = e
	}

	for _, region := range Regions(fileID, lowered, reporter) {
		check(region, decls, reporter)
	}
}

// Regions разбирает регионы без проверки; незакрытый регион — ошибка, и
// разбор продолжается после его начала.
func Regions(fileID source.FileID, lowered []byte, reporter diag.Reporter) []Region {
	mask := kindMask(lowered)
	var regions []Region

	i := 0
	for {
		begin := findMarker(lowered, mask, i, beginMarker)
		if begin < 0 {
			break
		}
		span := source.Span{File: fileID, Start: uint32(begin), End: uint32(begin + len(beginMarker))}

		nameStart := skipSpace(lowered, begin+len(beginMarker))
		nameEnd := lexer.ScanIdent(lowered, nameStart)
		if nameEnd == nameStart {
			i = begin + 1
			continue
		}
		name := string(lowered[nameStart:nameEnd])

		end := findMarker(lowered, mask, nameEnd, endMarker+name)
		if end < 0 {
			diag.ReportError(reporter, diag.ExhUnclosedRegion, span,
				fmt.Sprintf("unmatched exhaustive switch for enum %q", name))
			i = nameEnd
			continue
		}

		regions = append(regions, Region{
			Enum:    name,
			Covered: collectCases(lowered[begin:end], mask[begin:end]),
			Span:    span,
		})
		i = end + 1
	}
	return regions
}

func check(region Region, decls map[string]lowering.EnumDecl, reporter diag.Reporter) {
	decl, ok := decls[region.Enum]
	if !ok {
		diag.ReportError(reporter, diag.ExhUnknownEnum, region.Span,
			fmt.Sprintf("exhaustive switch names unknown enum %q", region.Enum))
		return
	}

	covered := make(map[string]bool, len(region.Covered))
	declared := make(map[string]bool, len(decl.Variants))
	for _, v := range decl.Variants {
		declared[v] = true
	}
	for _, c := range region.Covered {
		covered[c] = true
		if !declared[c] {
			diag.ReportError(reporter, diag.ExhForeignVariant, region.Span,
				fmt.Sprintf("case %s does not belong to enum %s", c, region.Enum))
		}
	}

	// пропуски — в порядке объявления enum
	var missing []string
	for _, v := range decl.Variants {
		if !covered[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		diag.ReportError(reporter, diag.ExhNonExhaustive, region.Span,
			fmt.Sprintf("non-exhaustive switch for enum %s: missing %s",
				region.Enum, strings.Join(missing, ", ")))
	}
}

// collectCases собирает идентификаторы из CS_CASE(IDENT) внутри региона.
func collectCases(region []byte, mask []lexer.SegKind) []string {
	var cases []string
	i := 0
	for {
		at := findMarker(region, mask, i, caseMarker)
		if at < 0 {
			break
		}
		open := skipSpace(region, at+len(caseMarker))
		if open >= len(region) || region[open] != '(' {
			i = at + len(caseMarker)
			continue
		}
		idStart := skipSpace(region, open+1)
		idEnd := lexer.ScanIdent(region, idStart)
		if idEnd == idStart {
			i = open + 1
			continue
		}
		cases = append(cases, string(region[idStart:idEnd]))
		i = idEnd
	}
	return cases
}

func kindMask(src []byte) []lexer.SegKind {
	mask := make([]lexer.SegKind, len(src))
	for _, s := range lexer.Scan(src) {
		for i := s.Start; i < s.End; i++ {
			mask[i] = s.Kind
		}
	}
	return mask
}

func skipSpace(src []byte, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\r' || src[i] == '\n') {
		i++
	}
	return i
}

// findMarker ищет marker как целое слово в кодовом сегменте.
func findMarker(src []byte, mask []lexer.SegKind, from int, marker string) int {
	for i := from; i+len(marker) <= len(src); i++ {
		if mask[i] != lexer.SegCode || src[i] != marker[0] {
			continue
		}
		if string(src[i:i+len(marker)]) != marker {
			continue
		}
		if i > 0 && lexer.IsIdentPart(src[i-1]) {
			continue
		}
		// маркер, кончающийся идентификатором, не должен быть префиксом
		// более длинного (CS_SWITCH_END(Color vs ColorX)
		if lexer.IsIdentPart(marker[len(marker)-1]) {
			if j := i + len(marker); j < len(src) && lexer.IsIdentPart(src[j]) {
				continue
			}
		}
		return i
	}
	return -1
}
