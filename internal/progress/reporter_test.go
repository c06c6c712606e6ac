package progress

import (
	"bytes"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Description: "Prefetching topics", Out: &buf}

	r.Start(2)
	r.Update(1, "react: 4 file(s)")
	r.Update(2, "ai: 0 file(s)")
	r.Finish()

	want := "Prefetching topics: 2 item(s)\n" +
		"[1/2] react: 4 file(s)\n" +
		"[2/2] ai: 0 file(s)\n" +
		"Prefetching topics: done\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter("x").(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	r, ok := NewReporter("x").(*TerminalReporter)
	if !ok {
		t.Fatal("expected TerminalReporter")
	}
	// Updates before Start are ignored.
	r.Update(1, "ignored")
	r.Finish()
}
