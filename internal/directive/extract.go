// Package directive extracts @-prefixed build directives from a translation
// unit. Directive lines are blanked in place so every byte offset and line
// number of the residual text matches the original file.
package directive

import (
	"fmt"
	"strings"

	"cscript/internal/config"
	"cscript/internal/diag"
	"cscript/internal/source"
)

// Sigil starts a directive line.
const Sigil = '@'

// Extract применяет все директивы файла к cfg (повтор — last-wins, списки
// накапливаются) и возвращает residual: копию содержимого, в которой каждая
// директивная строка затёрта пробелами.
func Extract(file *source.File, cfg *config.Config, reporter diag.Reporter) []byte {
	residual := make([]byte, len(file.Content))
	copy(residual, file.Content)

	lineStart := 0
	for lineStart < len(residual) {
		lineEnd := lineStart
		for lineEnd < len(residual) && residual[lineEnd] != '\n' {
			lineEnd++
		}
		line := residual[lineStart:lineEnd]

		if at := firstNonBlank(line); at >= 0 && line[at] == Sigil && !isUnsafeBlock(line[at+1:]) {
			span := source.Span{
				File:  file.ID,
				Start: uint32(lineStart + at),
				End:   uint32(lineEnd),
			}
			apply(strings.TrimSpace(string(line[at+1:])), span, cfg, reporter)
			blank(line)
		}

		lineStart = lineEnd + 1
	}
	return residual
}

// firstNonBlank returns the index of the first non-space/tab byte, or -1.
func firstNonBlank(line []byte) int {
	for i, b := range line {
		if b != ' ' && b != '\t' && b != '\r' {
			return i
		}
	}
	return -1
}

// isUnsafeBlock отличает блок "@unsafe {" от директив: это синтаксис тела,
// его забирает lowering, а не экстрактор.
func isUnsafeBlock(rest []byte) bool {
	const kw = "unsafe"
	if len(rest) < len(kw) || string(rest[:len(kw)]) != kw {
		return false
	}
	tail := rest[len(kw):]
	if len(tail) > 0 && tail[0] != ' ' && tail[0] != '\t' && tail[0] != '{' && tail[0] != '\r' {
		return false
	}
	return true
}

func blank(line []byte) {
	for i := range line {
		if line[i] != '\r' {
			line[i] = ' '
		}
	}
}

// apply разбирает "name arg..." и применяет к cfg.
func apply(text string, span source.Span, cfg *config.Config, reporter diag.Reporter) {
	name, rest, _ := strings.Cut(text, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		diag.ReportWarning(reporter, diag.DirUnknownDirective, span, "empty directive")
		return
	}

	args, err := splitArgs(rest)
	if err != nil {
		diag.ReportError(reporter, diag.DirUnterminatedStr, span,
			fmt.Sprintf("@%s: %v", name, err))
		return
	}

	switch name {
	case "hardline":
		setBool(&cfg.Hardline, name, args, span, reporter)
	case "softline":
		setBool(&cfg.Softline, name, args, span, reporter)
	case "lto":
		setBool(&cfg.LTO, name, args, span, reporter)
	case "muttrack":
		setBool(&cfg.MutTrack, name, args, span, reporter)
	case "anim":
		setBool(&cfg.Anim, name, args, span, reporter)
	case "guardian":
		// голый флаг; допускаем и явное on|off
		setBool(&cfg.Guardian, name, args, span, reporter)
	case "opt":
		v, ok := oneArg(name, args, span, reporter)
		if !ok {
			return
		}
		level, err := config.ParseOptLevel(v)
		if err != nil {
			diag.ReportError(reporter, diag.DirBadValue, span, "@opt: "+err.Error())
			return
		}
		cfg.Opt = level
	case "profile":
		v, ok := oneArg(name, args, span, reporter)
		if !ok {
			return
		}
		mode, err := config.ParseProfileMode(v)
		if err != nil {
			diag.ReportError(reporter, diag.DirBadValue, span, "@profile: "+err.Error())
			return
		}
		cfg.Profile = mode
	case "out":
		if v, ok := oneArg(name, args, span, reporter); ok {
			cfg.Out = v
		}
	case "abi":
		if v, ok := oneArg(name, args, span, reporter); ok {
			cfg.ABI = v
		}
	case "define":
		v, ok := oneArg(name, args, span, reporter)
		if !ok {
			return
		}
		if !validDefine(v) {
			diag.ReportError(reporter, diag.DirBadValue, span,
				fmt.Sprintf("@define: %q is not NAME or NAME=VALUE", v))
			return
		}
		cfg.Defines = append(cfg.Defines, v)
	case "inc":
		if v, ok := oneArg(name, args, span, reporter); ok {
			cfg.Incs = append(cfg.Incs, v)
		}
	case "libpath":
		if v, ok := oneArg(name, args, span, reporter); ok {
			cfg.LibPaths = append(cfg.LibPaths, v)
		}
	case "link":
		if v, ok := oneArg(name, args, span, reporter); ok {
			cfg.Links = append(cfg.Links, v)
		}
	default:
		diag.ReportWarning(reporter, diag.DirUnknownDirective, span,
			fmt.Sprintf("unknown directive @%s", name))
	}
}

// setBool обрабатывает булевы директивы: без аргумента — on, иначе on|off.
func setBool(dst *bool, name string, args []string, span source.Span, reporter diag.Reporter) {
	switch len(args) {
	case 0:
		*dst = true
	case 1:
		v, err := config.ParseOnOff(args[0])
		if err != nil {
			diag.ReportError(reporter, diag.DirBadValue, span,
				fmt.Sprintf("@%s: %v", name, err))
			return
		}
		*dst = v
	default:
		diag.ReportError(reporter, diag.DirBadValue, span,
			fmt.Sprintf("@%s: expected at most one argument", name))
	}
}

func oneArg(name string, args []string, span source.Span, reporter diag.Reporter) (string, bool) {
	if len(args) == 0 {
		diag.ReportError(reporter, diag.DirMissingValue, span,
			fmt.Sprintf("@%s: missing value", name))
		return "", false
	}
	if len(args) > 1 {
		diag.ReportError(reporter, diag.DirBadValue, span,
			fmt.Sprintf("@%s: expected one value, got %d", name, len(args)))
		return "", false
	}
	return args[0], true
}

// splitArgs разбивает строку аргументов по пробелам; двойные кавычки
// группируют аргумент с пробелами.
func splitArgs(s string) ([]string, error) {
	var args []string
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			break
		}
		if s[i] == '"' {
			j := i + 1
			for j < len(s) && s[j] != '"' {
				j++
			}
			if j >= len(s) {
				return nil, fmt.Errorf("unterminated quoted argument")
			}
			args = append(args, s[i+1:j])
			i = j + 1
			continue
		}
		j := i
		for j < len(s) && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		args = append(args, s[i:j])
		i = j
	}
	return args, nil
}

func validDefine(v string) bool {
	name, _, _ := strings.Cut(v, "=")
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		switch {
		case b == '_', b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		case b >= '0' && b <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
