package directive

import (
	"strings"
	"testing"

	"cscript/internal/config"
	"cscript/internal/diag"
	"cscript/internal/source"
)

func extractString(t *testing.T, src string) (config.Config, string, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("unit.csc", []byte(src))
	cfg := config.Default()
	bag := diag.NewBag(100)
	residual := Extract(fs.Get(id), &cfg, diag.BagReporter{Bag: bag})
	return cfg, string(residual), bag
}

func TestExtractBasics(t *testing.T) {
	src := "@opt O3\n@out \"bin/app\"\nint main(void){ return 0; }\n"
	cfg, residual, bag := extractString(t, src)

	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if cfg.Opt != config.OptO3 {
		t.Errorf("Opt = %q, want O3", cfg.Opt)
	}
	if cfg.Out != "bin/app" {
		t.Errorf("Out = %q, want bin/app", cfg.Out)
	}
	if strings.Contains(residual, "@opt") || strings.Contains(residual, "@out") {
		t.Error("directive lines must be blanked in the residual")
	}
}

func TestExtractPreservesLineNumbers(t *testing.T) {
	src := "@opt O2\nline two\n@lto off\nline four\n"
	_, residual, _ := extractString(t, src)

	if len(residual) != len(src) {
		t.Fatalf("residual length %d != original length %d", len(residual), len(src))
	}
	lines := strings.Split(residual, "\n")
	if strings.TrimSpace(lines[0]) != "" {
		t.Errorf("line 1 should be blank, got %q", lines[0])
	}
	if lines[1] != "line two" {
		t.Errorf("line 2 = %q, want untouched", lines[1])
	}
	if lines[3] != "line four" {
		t.Errorf("line 4 = %q, want untouched", lines[3])
	}
}

func TestDirectiveLastWins(t *testing.T) {
	cfg, _, bag := extractString(t, "@opt O2\n@opt max\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if cfg.Opt != config.OptMax {
		t.Errorf("Opt = %q, want max (last wins)", cfg.Opt)
	}
}

func TestListDirectivesAppend(t *testing.T) {
	cfg, _, _ := extractString(t, "@link \"m\"\n@link \"pthread\"\n@inc \"include dir\"\n")
	if len(cfg.Links) != 2 || cfg.Links[0] != "m" || cfg.Links[1] != "pthread" {
		t.Errorf("Links = %v", cfg.Links)
	}
	if len(cfg.Incs) != 1 || cfg.Incs[0] != "include dir" {
		t.Errorf("Incs = %v (quoted arg with space must survive)", cfg.Incs)
	}
}

func TestUnknownDirectiveWarns(t *testing.T) {
	_, _, bag := extractString(t, "@frobnicate yes\nint x;\n")
	if bag.HasErrors() {
		t.Error("unknown directive must not be fatal")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.DirUnknownDirective && d.Severity == diag.SevWarning {
			found = true
		}
	}
	if !found {
		t.Error("expected a DirUnknownDirective warning")
	}
}

func TestMalformedValueIsFatal(t *testing.T) {
	cases := []string{
		"@opt O9\n",
		"@profile sometimes\n",
		"@hardline maybe\n",
		"@out\n",
		"@define 9bad\n",
		"@inc \"unterminated\n",
	}
	for _, src := range cases {
		_, _, bag := extractString(t, src)
		if !bag.HasErrors() {
			t.Errorf("%q: expected a fatal diagnostic", src)
		}
	}
}

func TestBooleanDirectiveForms(t *testing.T) {
	cfg, _, bag := extractString(t, "@guardian\n@muttrack on\n@anim on\n@softline off\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if !cfg.Guardian || !cfg.MutTrack || !cfg.Anim {
		t.Error("guardian/muttrack/anim should all be on")
	}
	if cfg.Softline {
		t.Error("softline should be off")
	}
}

func TestUnsafeBlockIsNotADirective(t *testing.T) {
	_, residual, bag := extractString(t, "@unsafe {\n  p[i] = 0;\n}\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if !strings.Contains(residual, "@unsafe {") {
		t.Error("@unsafe block must survive extraction for the lowering pass")
	}
}

func TestDirectiveAnywhereInUnit(t *testing.T) {
	cfg, _, _ := extractString(t, "int main(void){ return 0; }\n  @opt size\n")
	if cfg.Opt != config.OptSize {
		t.Errorf("Opt = %q, want size (directives may appear anywhere)", cfg.Opt)
	}
}
