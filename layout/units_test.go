package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestPxPtBridge 验证 N 像素字号换算成 pt 后恰好对应 N 毫米。
func TestPxPtBridge(t *testing.T) {
	for _, px := range []float64{8, 20, 24, 48, 96} {
		if mm := PxToPt(px) * PtToMm; math.Abs(mm-px) > 1e-9 {
			t.Fatalf("%gpx 应对应 %gmm，实际 %g", px, px, mm)
		}
	}
}

func TestLineHeight(t *testing.T) {
	if got := LineHeight(20); math.Abs(got-23) > 1e-9 {
		t.Fatalf("20px 行高应为 23，实际 %g", got)
	}
}

func TestParseColorAndAlign(t *testing.T) {
	c, err := ParseColor("#ffffffff")
	if err != nil || c != White {
		t.Fatalf("unexpected white parse: %+v %v", c, err)
	}
	c, err = ParseColor("#0f0")
	if err != nil || c != (Color{G: 255, A: 255}) {
		t.Fatalf("unexpected short parse: %+v %v", c, err)
	}
	if _, err := ParseColor("blue"); err == nil {
		t.Fatalf("expected error for named colour")
	}
	if ParseAlign("END") != AlignRight || ParseAlign("center") != AlignCenter || ParseAlign("") != AlignLeft {
		t.Fatalf("ParseAlign normalisation broken")
	}
}
