package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderHistoryFixedScaleAndMasteryLine(t *testing.T) {
	var buf bytes.Buffer
	// 17 columns leave a 10-cell plot after the axis.
	if err := RenderHistoryWithSize(&buf, 2, []int{50, 50, 50}, 1, 17, 10, false); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 13 {
		t.Fatalf("expected title, note, 10 rows and legend, got:\n%s", buf.String())
	}
	if lines[0] != "Lesson 2" || lines[1] != "Fixed scale 0-100%." {
		t.Fatalf("unexpected header lines: %q %q", lines[0], lines[1])
	}
	empty := strings.Repeat("⠀", 10)
	if lines[2] != "100% │ "+empty {
		t.Fatalf("unexpected top row: %q", lines[2])
	}
	if lines[3] != " 90% │ "+strings.Repeat("⠁", 10) {
		t.Fatalf("expected mastery line on the 90%% row, got %q", lines[3])
	}
	if lines[7] != " 50% │ "+strings.Repeat("⠉", 10) {
		t.Fatalf("expected flat accuracy on the 50%% row, got %q", lines[7])
	}
	if lines[11] != "  0% │ "+empty {
		t.Fatalf("unexpected bottom row: %q", lines[11])
	}
	if !strings.HasPrefix(lines[12], "Legend: ") || !strings.Contains(lines[12], "Accuracy (solid)") || !strings.Contains(lines[12], "Mastery 90% (dotted)") {
		t.Fatalf("unexpected legend: %q", lines[12])
	}
}

func TestRenderHistoryClampsToScale(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistoryWithSize(&buf, 1, []int{100, 100}, 1, 17, 10, false); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[2] != "100% │ "+strings.Repeat("⠉", 10) {
		t.Fatalf("expected perfect scores on the top row, got %q", lines[2])
	}
}

func TestPlotAccuracySkipsEmptyCurves(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotAccuracy(&buf, "none", []Curve{{Name: "Accuracy"}}, 10, 4, false); err != nil {
		t.Fatalf("PlotAccuracy failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 73 {
		t.Fatalf("expected width 73, got %d", got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestFitToWidth(t *testing.T) {
	down := fitToWidth([]float64{10, 20, 30, 40}, 2)
	if len(down) != 2 || down[0] != 15 || down[1] != 35 {
		t.Fatalf("unexpected downsample: %v", down)
	}
	up := fitToWidth([]float64{0, 100}, 3)
	if len(up) != 3 || up[0] != 0 || up[1] != 50 || up[2] != 100 {
		t.Fatalf("unexpected interpolation: %v", up)
	}
}
