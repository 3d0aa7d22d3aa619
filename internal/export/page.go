package export

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

const mmPerInch = 25.4

// cssDPI is the CSS reference resolution: 1in = 96px.
const cssDPI = 96.0

// PageSpec is the physical size of the exported page and the device pixel
// ratio used for rasterization.
type PageSpec struct {
	Name        string
	WidthMM     float64
	HeightMM    float64
	ScaleFactor float64
}

// A4 is the only page size the exporter produces: 210mm x 297mm at 2x.
var A4 = PageSpec{Name: "A4", WidthMM: 210, HeightMM: 297, ScaleFactor: 2}

// CSSWidth returns the page width in CSS pixels.
func (p PageSpec) CSSWidth() int {
	return mmToCSS(p.WidthMM)
}

// CSSHeight returns the page height in CSS pixels.
func (p PageSpec) CSSHeight() int {
	return mmToCSS(p.HeightMM)
}

// PixelWidth returns the width of the exported image in device pixels.
func (p PageSpec) PixelWidth() int {
	return int(math.Round(float64(p.CSSWidth()) * p.ScaleFactor))
}

// PixelHeight returns the height of the exported image in device pixels.
func (p PageSpec) PixelHeight() int {
	return int(math.Round(float64(p.CSSHeight()) * p.ScaleFactor))
}

func mmToCSS(mm float64) int {
	return int(math.Round(mm / mmPerInch * cssDPI))
}

// captureCSS pins the capture root to the page size and removes any on-screen
// scaling, so the image never depends on the viewer's viewport.
func captureCSS(spec PageSpec, background string) string {
	return fmt.Sprintf(
		"html,body{background-color:%[3]s!important}"+
			"#cv{transform:none!important;margin:0!important;border-radius:0!important;"+
			"width:%[1]gmm!important;height:%[2]gmm!important;min-height:%[2]gmm!important;"+
			"background-color:%[3]s!important}",
		spec.WidthMM, spec.HeightMM, background,
	)
}

// ParseHexColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
