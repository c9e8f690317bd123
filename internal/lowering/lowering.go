// Package lowering переписывает residual-текст в обычный C: enum! в typedef с
// валидаторами, @unsafe-блоки в маркеры, softline-сахар (fn, let/var, match) в
// эквивалентный C. Все проходы работают только в кодовых сегментах и
// идемпотентны: повторный прогон уже опущенного текста ничего не меняет.
package lowering

import (
	"cscript/internal/diag"
	"cscript/internal/source"
)

// Options управляет опусканием одной единицы трансляции.
type Options struct {
	// Softline gates the sugar rules (fn, let/var, match). Enum and @unsafe
	// rewrites run regardless: their output is required by the
	// exhaustiveness check and the prelude markers.
	Softline bool
	// Instrument injects a cs_prof_hit call at the top of every lowered
	// function (first pass of a profile-guided build).
	Instrument bool
	// Hot marks function names that receive the CS_HOT attribute
	// (second pass of a profile-guided build).
	Hot map[string]bool
}

// EnumDecl is one collected enum! declaration, variants in source order.
type EnumDecl struct {
	Name     string
	Variants []string
	Span     source.Span // name в residual-тексте
}

// Result — опущенный текст плюс собранные enum! для проверки
// исчерпываемости и имена опущенных fn (по ним оркестратор решает,
// стоит ли включать профилирование в режиме auto).
type Result struct {
	Text  []byte
	Enums []EnumDecl
	Fns   []string
}

// Lower применяет все правила в фиксированном порядке. fileID — файл, которому
// принадлежит residual; его смещения совпадают со смещениями оригинала, так
// что диагностики enum-прохода указывают в исходник.
func Lower(fileID source.FileID, residual []byte, opts Options, reporter diag.Reporter) Result {
	text, enums := lowerEnums(fileID, residual, reporter)
	text = lowerUnsafe(text)
	var fns []string
	if opts.Softline {
		text, fns = lowerFns(text, opts)
		text = lowerBindings(text)
		text = lowerMatch(text, fileID, reporter)
	}
	return Result{Text: text, Enums: enums, Fns: fns}
}
