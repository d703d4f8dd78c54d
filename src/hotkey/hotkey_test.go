package hotkey

import (
	"testing"
)

func TestKeyNameToRawcodes(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"cmd", []uint16{91, 92}},
		{"a", []uint16{65}},
		{"x", []uint16{88}},
		{"Z", []uint16{90}},
		{"0", []uint16{48}},
		{"9", []uint16{57}},
		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},
		{"f25", nil},
		{"f1x", nil},
		{"space", []uint16{32}},
		{"esc", []uint16{27}},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			result := keyNameToRawcodes(tt.keyName)
			if len(result) != len(tt.expected) {
				t.Fatalf("keyNameToRawcodes(%q) = %v, want %v", tt.keyName, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("keyNameToRawcodes(%q)[%d] = %d, want %d", tt.keyName, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseHotkey(t *testing.T) {
	got := parseHotkey(" Control + Super +x ")
	want := []string{"ctrl", "cmd", "x"}
	if len(got) != len(want) {
		t.Fatalf("parseHotkey = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseHotkey[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChord(t *testing.T) {
	c, err := newChord("Ctrl+Alt+X")
	if err != nil {
		t.Fatalf("newChord: %v", err)
	}

	if c.press(162) {
		t.Fatal("ctrl alone must not fire")
	}
	if c.press(165) {
		t.Fatal("ctrl+alt must not fire")
	}
	if !c.press(88) {
		t.Fatal("ctrl+alt+x should fire")
	}
	// Chord resets after firing.
	if c.press(88) {
		t.Fatal("chord fired twice without being pressed again")
	}

	c.press(163)
	c.press(164)
	c.release(164)
	if c.press(88) {
		t.Fatal("released alt must not count")
	}
}

func TestNewChordErrors(t *testing.T) {
	for _, combo := range []string{"", "+", "Ctrl+Hyper"} {
		if _, err := newChord(combo); err == nil {
			t.Errorf("newChord(%q): expected error", combo)
		}
	}
}
