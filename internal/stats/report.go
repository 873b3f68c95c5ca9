package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/rtyping/internal/model"
)

// ResultLines formats a finished session as aligned label/value rows.
func ResultLines(res model.Result) []string {
	rows := [][]string{
		{"Total Time", fmt.Sprintf("%d sec", res.ElapsedSeconds)},
		{"Total Typing", fmt.Sprintf("%d chars", res.Typed)},
		{"Total Misses", fmt.Sprintf("%d chars", res.Misses)},
		{"Accuracy", fmt.Sprintf("%.1f%%", res.Accuracy*100)},
		{"Words Per Minute", fmt.Sprintf("%.1f wpm", res.WPM)},
	}
	return formatTable(rows, map[int]bool{1: true})
}

// RenderResult prints the final report for a session.
func RenderResult(w io.Writer, res model.Result) error {
	if _, err := fmt.Fprintln(w, "Result"); err != nil {
		return err
	}
	for _, line := range ResultLines(res) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
