package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/rtyping/internal/model"
)

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	err := RenderResult(&buf, model.Result{ElapsedSeconds: 5, Typed: 3, Misses: 1, WPM: 4.8, Accuracy: 0.75})
	if err != nil {
		t.Fatalf("render result: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Total Time", "5 sec", "3 chars", "1 chars", "75.0%", "4.8 wpm"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("result missing %q: %s", needle, out)
		}
	}
}

func TestResultLinesAligned(t *testing.T) {
	lines := ResultLines(model.Result{ElapsedSeconds: 60, Typed: 120, WPM: 24})
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	width := len([]rune(lines[0]))
	for _, line := range lines[1:] {
		if len([]rune(line)) != width {
			t.Fatalf("expected aligned rows, got %q", lines)
		}
	}
}
