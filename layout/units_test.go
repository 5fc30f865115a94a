package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%g back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestUnits(t *testing.T) {
	if got := Units(1.5); got != 1536 {
		t.Fatalf("Units(1.5) 期望 1536，实际 %d", got)
	}
	if got := PixelsFromUnits(2048); got != 2 {
		t.Fatalf("PixelsFromUnits(2048) 期望 2，实际 %g", got)
	}
	// 字距 3 在 1.5 倍缩放下：floor(3*1024*1.5+0.5) = 4608
	if got := ScaledUnits(3, 1.5); got != 4608 {
		t.Fatalf("ScaledUnits(3, 1.5) 期望 4608，实际 %d", got)
	}
	if got := RoundHalfUp(2.5, 1); got != 3 {
		t.Fatalf("RoundHalfUp(2.5, 1) 期望 3，实际 %g", got)
	}
	if got := RoundHalfUp(0.3, 1); got != 0 {
		t.Fatalf("RoundHalfUp(0.3, 1) 期望 0，实际 %g", got)
	}
}
