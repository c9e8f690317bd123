package buildpipeline

import (
	"reflect"
	"strings"
	"testing"

	"cscript/internal/config"
)

func TestParseProfile(t *testing.T) {
	counts := ParseProfile([]byte("add 900\nmul 10\nadd 100\ngarbage\nbad x\n"))
	if counts["add"] != 1000 {
		t.Errorf("add = %d, want summed 1000", counts["add"])
	}
	if counts["mul"] != 10 {
		t.Errorf("mul = %d", counts["mul"])
	}
	if len(counts) != 2 {
		t.Errorf("garbage lines must be skipped: %v", counts)
	}
}

func TestSelectHotOrderAndTieBreak(t *testing.T) {
	counts := map[string]uint64{
		"zeta": 50, "alpha": 50, "beta": 900, "cold": 0,
	}
	hot := SelectHot(counts, 16)
	want := []string{"beta", "alpha", "zeta"}
	if !reflect.DeepEqual(hot, want) {
		t.Errorf("hot = %v, want %v (count desc, then name asc, zeros dropped)", hot, want)
	}
}

func TestSelectHotLimit(t *testing.T) {
	counts := map[string]uint64{"a": 3, "b": 2, "c": 1}
	if hot := SelectHot(counts, 2); len(hot) != 2 || hot[0] != "a" || hot[1] != "b" {
		t.Errorf("hot = %v", hot)
	}
}

func TestArgv(t *testing.T) {
	cfg := config.Default()
	cfg.Opt = config.OptMax
	cfg.Defines = []string{"NDEBUG", "MODE=2"}
	cfg.Incs = []string{"include"}
	cfg.LibPaths = []string{"/opt/lib"}
	cfg.Links = []string{"m"}

	got := strings.Join(Argv(CompileSpec{
		SourcePath: "u.c", OutputPath: "app", Cfg: cfg, Instrumented: true,
	}), " ")
	want := "-std=c11 -O3 -Wall -Wextra -Werror -Wconversion -Wsign-conversion" +
		" -flto -DCS_HARDLINE=1 -DCS_PROFILE_BUILD=1 -DNDEBUG -DMODE=2" +
		" -Iinclude u.c -o app -L/opt/lib -lm"
	if got != want {
		t.Errorf("argv\n got %q\nwant %q", got, want)
	}
}

func TestArgvRelaxed(t *testing.T) {
	cfg := config.Default()
	cfg.Hardline = false
	cfg.LTO = false
	got := strings.Join(Argv(CompileSpec{SourcePath: "u.c", OutputPath: "a.out", Cfg: cfg}), " ")
	if strings.Contains(got, "-Werror") || strings.Contains(got, "-flto") ||
		strings.Contains(got, "CS_HARDLINE") || strings.Contains(got, "CS_PROFILE_BUILD") {
		t.Errorf("argv = %q", got)
	}
}
