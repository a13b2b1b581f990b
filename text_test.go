package canopy

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Font parsing ---

func TestFontSize(t *testing.T) {
	tests := []struct {
		font string
		want float64
	}{
		{"30px sans-serif", 30},
		{"bold 24px Helvetica", 24},
		{"13PX monospace", 13},
		{"sans-serif", defaultFontSize},
		{"-4px serif", defaultFontSize},
		{"", defaultFontSize},
	}
	for _, tt := range tests {
		if got := fontSize(tt.font); got != tt.want {
			t.Errorf("fontSize(%q) = %v, want %v", tt.font, got, tt.want)
		}
	}
}

func TestLabelScale(t *testing.T) {
	l := &Label{Font: "26px sans-serif", Scale: 0.5}
	if got := labelScale(l); math.Abs(got-1) > 1e-9 {
		t.Errorf("labelScale = %v, want 1", got)
	}
}

// --- Drawing ---

func TestDrawLabel(t *testing.T) {
	screen := ebiten.NewImage(64, 32)
	l := &Label{Text: "Hi", Font: "13px monospace", Scale: 1, FillColor: ColorWhite, OutlineColor: ColorBlack}
	drawLabel(screen, l, 2, 2)
	if labelFace() != labelFace() {
		t.Error("label face should be shared")
	}
}
