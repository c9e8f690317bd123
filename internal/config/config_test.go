package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Default()
	if !cfg.Hardline || !cfg.Softline || !cfg.LTO {
		t.Error("hardline, softline and lto must default to on")
	}
	if cfg.Opt != OptO2 {
		t.Errorf("Opt default = %q, want O2", cfg.Opt)
	}
	if cfg.Profile != ProfileOff {
		t.Errorf("Profile default = %q, want off", cfg.Profile)
	}
	if cfg.Out != "a.out" {
		t.Errorf("Out default = %q, want a.out", cfg.Out)
	}
	if cfg.Guardian || cfg.Anim || cfg.MutTrack {
		t.Error("guardian, anim and muttrack must default to off")
	}
}

func TestParseOptLevel(t *testing.T) {
	for _, ok := range []string{"O0", "O1", "O2", "O3", "max", "size"} {
		if _, err := ParseOptLevel(ok); err != nil {
			t.Errorf("ParseOptLevel(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "o2", "O4", "fast"} {
		if _, err := ParseOptLevel(bad); err == nil {
			t.Errorf("ParseOptLevel(%q) expected error", bad)
		}
	}
}

func TestParseProfileMode(t *testing.T) {
	for _, ok := range []string{"on", "off", "auto"} {
		if _, err := ParseProfileMode(ok); err != nil {
			t.Errorf("ParseProfileMode(%q) unexpected error: %v", ok, err)
		}
	}
	if _, err := ParseProfileMode("yes"); err == nil {
		t.Error("ParseProfileMode(\"yes\") expected error")
	}
}

func TestParseOnOff(t *testing.T) {
	v, err := ParseOnOff("on")
	if err != nil || !v {
		t.Errorf("ParseOnOff(on) = %v, %v", v, err)
	}
	v, err = ParseOnOff("off")
	if err != nil || v {
		t.Errorf("ParseOnOff(off) = %v, %v", v, err)
	}
	if _, err := ParseOnOff("true"); err == nil {
		t.Error("ParseOnOff(true) expected error")
	}
}
