package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotAccuracy(t *testing.T) {
	var buf bytes.Buffer
	err := PlotAccuracy(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{0, 50, 100, 50, 0}},
		{Name: "B", Values: []float64{100, 100}},
	}, 12, 4, false)
	if err != nil {
		t.Fatalf("PlotAccuracy failed: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "Test Plot" {
		t.Fatalf("expected title first, got %q", lines[0])
	}
	if len(lines) != 1+4+1 {
		t.Fatalf("expected title, 4 rows and legend, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "100%") || !strings.HasPrefix(lines[4], "  0%") {
		t.Fatalf("unexpected axis labels: %q %q", lines[1], lines[4])
	}
	if !strings.Contains(lines[5], "A") || !strings.Contains(lines[5], "B") {
		t.Fatalf("expected legend with both series: %q", lines[5])
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour disabled but escape codes found")
	}
}

func TestPlotAccuracyEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotAccuracy(&buf, "Empty", []Series{{Name: "A"}}, 20, 4, false); err != nil {
		t.Fatalf("PlotAccuracy failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestResample(t *testing.T) {
	got := resample([]float64{0, 100}, 5)
	want := []float64{0, 25, 50, 75, 100}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stretch: got %v, want %v", got, want)
		}
	}
	got = resample([]float64{10, 20, 30, 40}, 2)
	if got[0] != 15 || got[1] != 35 {
		t.Fatalf("shrink: got %v", got)
	}
}
