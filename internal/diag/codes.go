package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Директивы
	DirUnknownDirective Code = 1001
	DirBadValue         Code = 1002
	DirMissingValue     Code = 1003
	DirUnterminatedStr  Code = 1004

	// Лексика / lowering
	LowUnterminatedString  Code = 2001
	LowUnterminatedComment Code = 2002
	LowDuplicateEnum       Code = 2003
	LowMalformedEnum       Code = 2004
	LowMalformedMatch      Code = 2005

	// Проверка исчерпываемости
	ExhNonExhaustive  Code = 3001
	ExhUnknownEnum    Code = 3002
	ExhForeignVariant Code = 3003
	ExhUnclosedRegion Code = 3004

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Сборка
	BuildProfilingBuild Code = 5001
	BuildProfilingRun   Code = 5002
	BuildFinal          Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	DirUnknownDirective:    "Unknown directive",
	DirBadValue:            "Malformed directive value",
	DirMissingValue:        "Missing directive value",
	DirUnterminatedStr:     "Unterminated quoted argument",
	LowUnterminatedString:  "Unterminated string literal",
	LowUnterminatedComment: "Unterminated block comment",
	LowDuplicateEnum:       "Duplicate enum name",
	LowMalformedEnum:       "Malformed enum declaration",
	LowMalformedMatch:      "Malformed match expression",
	ExhNonExhaustive:       "Non-exhaustive switch",
	ExhUnknownEnum:         "Unknown enum in exhaustive switch",
	ExhForeignVariant:      "Case label does not belong to the enum",
	ExhUnclosedRegion:      "Unmatched exhaustive switch region",
	IOLoadFileError:        "Cannot load file",
	BuildProfilingBuild:    "Instrumented build failed",
	BuildProfilingRun:      "Instrumented run failed",
	BuildFinal:             "Final build failed",
}

func (c Code) String() string {
	return fmt.Sprintf("CSC%04d", uint16(c))
}

// Description возвращает краткое описание кода.
func (c Code) Description() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}
