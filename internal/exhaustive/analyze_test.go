package exhaustive

import (
	"strings"
	"testing"

	"cscript/internal/diag"
	"cscript/internal/lowering"
)

var colorEnum = []lowering.EnumDecl{
	{Name: "Color", Variants: []string{"Red", "Green", "Blue"}},
	{Name: "State", Variants: []string{"Idle", "Busy"}},
}

func analyze(src string, enums []lowering.EnumDecl) *diag.Bag {
	bag := diag.NewBag(100)
	Analyze(0, []byte(src), enums, diag.BagReporter{Bag: bag})
	return bag
}

func region(enum string, cases ...string) string {
	var b strings.Builder
	b.WriteString("CS_SWITCH_EXHAUSTIVE(" + enum + ", v)\n")
	for _, c := range cases {
		b.WriteString("  CS_CASE(" + c + "); break;\n")
	}
	b.WriteString("CS_SWITCH_END(" + enum + ", v);\n")
	return b.String()
}

func TestCompleteRegionPasses(t *testing.T) {
	bag := analyze(region("Color", "Red", "Green", "Blue"), colorEnum)
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestMissingVariants(t *testing.T) {
	bag := analyze(region("Color", "Red", "Green"), colorEnum)
	if !bag.HasErrors() {
		t.Fatal("expected a non-exhaustive error")
	}
	d := bag.Items()[0]
	if d.Code != diag.ExhNonExhaustive {
		t.Errorf("code = %v", d.Code)
	}
	if !strings.Contains(d.Message, "missing Blue") {
		t.Errorf("message = %q", d.Message)
	}
}

func TestMissingVariantsInDeclarationOrder(t *testing.T) {
	bag := analyze(region("Color", "Green"), colorEnum)
	d := bag.Items()[0]
	if !strings.Contains(d.Message, "missing Red, Blue") {
		t.Errorf("missing list must follow declaration order: %q", d.Message)
	}
}

func TestUnknownEnum(t *testing.T) {
	bag := analyze(region("Shade", "Light"), colorEnum)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ExhUnknownEnum {
		t.Errorf("diagnostics = %+v", bag.Items())
	}
}

func TestForeignVariant(t *testing.T) {
	bag := analyze(region("Color", "Red", "Green", "Blue", "Idle"), colorEnum)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ExhForeignVariant {
			found = true
			if !strings.Contains(d.Message, "Idle") {
				t.Errorf("message = %q", d.Message)
			}
		}
		if d.Code == diag.ExhNonExhaustive {
			t.Errorf("all declared variants are covered: %q", d.Message)
		}
	}
	if !found {
		t.Error("expected a foreign-variant error")
	}
}

func TestUnclosedRegion(t *testing.T) {
	bag := analyze("CS_SWITCH_EXHAUSTIVE(Color, v)\nCS_CASE(Red);\n", colorEnum)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ExhUnclosedRegion {
		t.Errorf("diagnostics = %+v", bag.Items())
	}
}

func TestBatchesAllRegions(t *testing.T) {
	src := region("Color", "Red") + "\n" + region("State", "Idle")
	bag := analyze(src, colorEnum)
	if bag.Len() != 2 {
		t.Fatalf("expected both regions reported, got %+v", bag.Items())
	}
}

func TestOrdinarySwitchIgnored(t *testing.T) {
	src := "switch (v) { case 1: break; default: break; }\n"
	bag := analyze(src, colorEnum)
	if bag.Len() != 0 {
		t.Errorf("ordinary switch must be ignored: %+v", bag.Items())
	}
}

func TestMarkersInsideLiteralsIgnored(t *testing.T) {
	src := "const char* s = \"CS_SWITCH_EXHAUSTIVE(Color, v)\";\n// CS_SWITCH_EXHAUSTIVE(State, v)\n"
	bag := analyze(src, colorEnum)
	if bag.Len() != 0 {
		t.Errorf("markers in strings/comments must be ignored: %+v", bag.Items())
	}
}

func TestRegionEnumNamePrefix(t *testing.T) {
	// закрывающий маркер другого enum с тем же префиксом не должен закрывать регион
	src := "CS_SWITCH_EXHAUSTIVE(State, v)\nCS_CASE(Idle); CS_CASE(Busy);\nCS_SWITCH_END(StateMachine, v);\n"
	bag := analyze(src, colorEnum)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ExhUnclosedRegion {
		t.Errorf("diagnostics = %+v", bag.Items())
	}
}
