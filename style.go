package trigeff

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// DefaultQualityPalette is the brewer palette used for quality stacks.
const DefaultQualityPalette = "Set1"

// Style holds the read-only drawing configuration shared by the renderer and
// the comparison plots.
type Style struct {
	// QualityColors[q-1] fills the stack of quality q.
	QualityColors []color.Color
	// LineColors[i] draws the i-th curve of a comparison.
	LineColors []color.Color

	Width, Height vg.Length
}

// DefaultStyle returns square 5 inch canvases, the Set1 quality palette and
// line colors black, red, green, blue, magenta, cyan, orange.
func DefaultStyle() Style {
	qual, err := QualityPalette(DefaultQualityPalette)
	if err != nil {
		panic(err)
	}
	return Style{
		QualityColors: qual,
		LineColors: []color.Color{
			color.RGBA{A: 255},
			color.RGBA{R: 255, A: 255},
			color.RGBA{G: 191, A: 255},
			color.RGBA{B: 255, A: 255},
			color.RGBA{R: 255, B: 255, A: 255},
			color.RGBA{G: 191, B: 191, A: 255},
			color.RGBA{R: 255, G: 127, A: 255},
		},
		Width:  5 * vg.Inch,
		Height: 5 * vg.Inch,
	}
}

// QualityPalette returns NumQualities colors from the named brewer palette.
func QualityPalette(name string) ([]color.Color, error) {
	p, err := brewer.GetPalette(brewer.TypeAny, name, NumQualities)
	if err != nil {
		return nil, fmt.Errorf("trigeff: quality palette %q: %w", name, err)
	}
	return p.Colors(), nil
}

// QualityColor returns the fill color of quality q.
func (s Style) QualityColor(q int) color.Color {
	if len(s.QualityColors) == 0 {
		return plotutil.Color(q - 1)
	}
	return s.QualityColors[(q-1)%len(s.QualityColors)]
}

// LineColor returns the color of the i-th curve of a comparison.
func (s Style) LineColor(i int) color.Color {
	if len(s.LineColors) == 0 {
		return plotutil.Color(i)
	}
	return s.LineColors[i%len(s.LineColors)]
}

func (s Style) size() (vg.Length, vg.Length) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = 5 * vg.Inch
	}
	if h <= 0 {
		h = w
	}
	return w, h
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("trigeff: invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("trigeff: invalid color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
