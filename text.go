package canopy

import (
	"strconv"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// defaultFontSize is used when a label font has no parsable pixel size.
const defaultFontSize = 30.0

// baseFace is the bitmap face all label text is drawn with. Font sizes scale
// it; families are not resolved.
var (
	baseFaceOnce sync.Once
	baseFace     *text.GoXFace
)

func labelFace() *text.GoXFace {
	baseFaceOnce.Do(func() {
		baseFace = text.NewGoXFace(basicfont.Face7x13)
	})
	return baseFace
}

// fontSize extracts the pixel size from a CSS-style font string such as
// "bold 24px sans-serif".
func fontSize(font string) float64 {
	for _, part := range strings.Fields(font) {
		num, ok := strings.CutSuffix(strings.ToLower(part), "px")
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(num, 64); err == nil && v > 0 {
			return v
		}
	}
	return defaultFontSize
}

// labelScale is the factor applied to the base face for l.
func labelScale(l *Label) float64 {
	return fontSize(l.Font) / float64(basicfont.Face7x13.Height) * l.Scale
}

// drawLabel draws l with its top-left corner at (x, y). A one pixel outline
// is drawn first in OutlineColor when it is not transparent.
func drawLabel(screen *ebiten.Image, l *Label, x, y float64) {
	face := labelFace()
	scale := labelScale(l)

	draw := func(dx, dy float64, c Color) {
		op := &text.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(x+dx, y+dy)
		op.ColorScale.ScaleWithColor(c.toRGBA())
		text.Draw(screen, l.Text, face, op)
	}

	if l.OutlineColor.A > 0 {
		offsets := [8][2]float64{
			{-1, 0}, {1, 0}, {0, -1}, {0, 1},
			{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
		}
		for _, off := range offsets {
			draw(off[0], off[1], l.OutlineColor)
		}
	}
	draw(0, 0, l.FillColor)
}
