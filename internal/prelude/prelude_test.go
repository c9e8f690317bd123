package prelude

import (
	"strings"
	"testing"

	"cscript/internal/config"
)

func TestComposeIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Guardian = true
	cfg.MutTrack = true
	if Compose(cfg) != Compose(cfg) {
		t.Fatal("same configuration must compose byte-identical preludes")
	}
}

func TestComposeHardline(t *testing.T) {
	cfg := config.Default()
	if !strings.Contains(Compose(cfg), "#define CS_HARDLINE 1") {
		t.Error("hardline on must define CS_HARDLINE")
	}
	cfg.Hardline = false
	if strings.Contains(Compose(cfg), "#define CS_HARDLINE 1") {
		t.Error("hardline off must not define CS_HARDLINE")
	}
}

func TestComposeAlwaysCarriesCoreMacros(t *testing.T) {
	text := Compose(config.Config{})
	for _, macro := range []string{
		"CS_SWITCH_EXHAUSTIVE", "CS_CASE", "CS_SWITCH_END",
		"CS_UNSAFE_BEGIN", "CS_UNSAFE_END", "CS_HOT",
		"CS_DEFER", "CS_TUPLE2", "CS_TUPLE3",
		"cs_prof_hit", "CS_PROFILE_BUILD",
	} {
		if !strings.Contains(text, macro) {
			t.Errorf("missing %s", macro)
		}
	}
}

func TestComposeGuardian(t *testing.T) {
	cfg := config.Default()
	if strings.Contains(Compose(cfg), "#define Result(T)") {
		t.Error("guardian helpers must be off by default")
	}
	cfg.Guardian = true
	text := Compose(cfg)
	for _, m := range []string{"Result(T)", "unwrap", "CS_MALLOC"} {
		if !strings.Contains(text, m) {
			t.Errorf("guardian on: missing %s", m)
		}
	}
}

func TestComposeMutTrack(t *testing.T) {
	cfg := config.Default()
	off := Compose(cfg)
	if !strings.Contains(off, "CS_MUT_STORE") {
		t.Error("no-op mutation macros must always exist so user code compiles")
	}
	if strings.Contains(off, "cs__mutations") {
		t.Error("counter must be absent with muttrack off")
	}
	cfg.MutTrack = true
	on := Compose(cfg)
	if !strings.Contains(on, "cs__mutations++") || !strings.Contains(on, "cs_mutation_count") {
		t.Error("muttrack on must emit the counting variants")
	}
}
