// Package config holds the typed build configuration assembled from source
// directives and CLI flags.
package config

import (
	"fmt"
)

// OptLevel is an optimization level accepted by the @opt directive.
type OptLevel string

const (
	OptO0   OptLevel = "O0"
	OptO1   OptLevel = "O1"
	OptO2   OptLevel = "O2"
	OptO3   OptLevel = "O3"
	OptMax  OptLevel = "max"
	OptSize OptLevel = "size"
)

// ParseOptLevel validates an @opt value.
func ParseOptLevel(s string) (OptLevel, error) {
	switch OptLevel(s) {
	case OptO0, OptO1, OptO2, OptO3, OptMax, OptSize:
		return OptLevel(s), nil
	}
	return "", fmt.Errorf("invalid optimization level %q (expected O0|O1|O2|O3|max|size)", s)
}

// ProfileMode controls the profile-guided two-pass build.
type ProfileMode string

const (
	ProfileOff  ProfileMode = "off"
	ProfileOn   ProfileMode = "on"
	ProfileAuto ProfileMode = "auto"
)

// ParseProfileMode validates a @profile value.
func ParseProfileMode(s string) (ProfileMode, error) {
	switch ProfileMode(s) {
	case ProfileOff, ProfileOn, ProfileAuto:
		return ProfileMode(s), nil
	}
	return "", fmt.Errorf("invalid profile mode %q (expected on|off|auto)", s)
}

// ParseOnOff validates an on|off directive value.
func ParseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q (expected on|off)", s)
}

// Config is the effective build configuration for one translation unit.
// Построен инкрементально экстрактором директив; далее по конвейеру передаётся
// по значению и не меняется.
type Config struct {
	Hardline bool        // строгая диагностика + runtime проверки enum
	Softline bool        // синтаксический сахар
	Opt      OptLevel    // уровень оптимизации
	LTO      bool        // link-time optimization
	Profile  ProfileMode // PGO two-pass
	Out      string      // итоговый артефакт
	ABI      string      // passed through to the toolchain, uninterpreted
	Defines  []string    // -D
	Incs     []string    // -I
	LibPaths []string    // -L
	Links    []string    // -l
	Guardian bool        // relaxed-conversion pragma helpers in the prelude
	Anim     bool        // animated build progress
	MutTrack bool        // process-wide mutation counter in the prelude

	// CLI-only knobs, never set by directives.
	CCPrefer string // preferred C compiler binary
}

// Default returns the documented directive defaults.
func Default() Config {
	return Config{
		Hardline: true,
		Softline: true,
		Opt:      OptO2,
		LTO:      true,
		Profile:  ProfileOff,
		Out:      "a.out",
	}
}
