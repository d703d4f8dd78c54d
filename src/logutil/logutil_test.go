package logutil

import (
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	if got := Describe(""); got != "len=0" {
		t.Errorf("Describe(\"\") = %q", got)
	}

	got := Describe("hunter2")
	if strings.Contains(got, "hunter2") {
		t.Fatalf("Describe leaked content: %q", got)
	}
	if !strings.HasPrefix(got, "len=7 sha=") {
		t.Errorf("unexpected format: %q", got)
	}
	if got != Describe("hunter2") {
		t.Error("Describe must be deterministic")
	}
	if got == Describe("hunter3") {
		t.Error("different inputs should not collide here")
	}
}
