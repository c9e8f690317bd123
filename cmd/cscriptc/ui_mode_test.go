package main

import "testing"

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{
		"":     uiModeAuto,
		"auto": uiModeAuto,
		"AUTO": uiModeAuto,
		"on":   uiModeOn,
		"off":  uiModeOff,
	}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("fancy"); err == nil {
		t.Error("readUIMode(\"fancy\") expected error")
	}
}

func TestShouldUseTUIExplicitModes(t *testing.T) {
	if !shouldUseTUI(uiModeOn, false) {
		t.Error("ui on must force the TUI")
	}
	if shouldUseTUI(uiModeOff, true) {
		t.Error("ui off must suppress the TUI even with @anim")
	}
}
