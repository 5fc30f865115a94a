package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Defaults used when the host leaves a field empty.
const (
	DefaultFamily   = "Sans"
	DefaultFontSize = 64
)

// Color is a normalized RGBA color. Components are not clamped.
type Color struct {
	R, G, B, A float64
}

// RGBA8 converts to 8-bit straight alpha, clamping to [0, 255].
func (c Color) RGBA8() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ParseColor reads "#rgb", "#rrggbb", "#rrggbbaa" or an SVG color name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") && len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q", s)
		}
		c, err := ParseColor(s[:7])
		if err != nil {
			return Color{}, err
		}
		c.A = float64(a) / 255
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
	}
	named, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return Color{}, fmt.Errorf("unknown color %q", s)
	}
	return Color{
		R: float64(named.R) / 255,
		G: float64(named.G) / 255,
		B: float64(named.B) / 255,
		A: float64(named.A) / 255,
	}, nil
}

// Descriptor is the complete style of one text element.
type Descriptor struct {
	Wrap    Wrap
	Align   Align
	VAlign  VAlign
	Justify bool

	Weight  Weight
	Stretch Stretch

	HintStyle   HintStyle
	HintMetrics HintMetrics
	Antialias   Antialias
	Subpixel    Subpixel

	// LetterSpacing and StrokeWidth are device units before render scale.
	LetterSpacing int
	StrokeWidth   float64

	TextColor       Color
	StrokeColor     Color
	BackgroundColor Color

	// ArcRadius > 0 lays the text along a circle; ArcAngle is the span in degrees.
	ArcRadius float64
	ArcAngle  float64

	Markup   bool
	AutoSize bool

	// Font is a font description string such as "Sans bold 64".
	Font string
}

// DefaultDescriptor mirrors the host's parameter defaults.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		Wrap:        WrapWord,
		Align:       AlignLeft,
		VAlign:      VAlignTop,
		Weight:      WeightNormal,
		Stretch:     StretchNormal,
		TextColor:   Color{R: 1, G: 1, B: 1, A: 1},
		StrokeColor: Color{R: 1, G: 0, B: 0, A: 1},
		Font:        FontString(DefaultFamily, "normal", DefaultFontSize, 1),
	}
}

// Request describes the raster a render call should produce.
type Request struct {
	Width, Height  int
	ScaleX, ScaleY float64
	// Flip mirrors the buffer vertically for bottom-up hosts.
	Flip bool
	// RoDOnly measures the layout without painting.
	RoDOnly bool
	// NoBuffer paints but skips pixel extraction.
	NoBuffer bool
}

// Scale returns the horizontal render scale, treating 0 as 1.
func (r Request) Scale() float64 {
	if r.ScaleX == 0 {
		return 1
	}
	return r.ScaleX
}

// FontString builds "<family> <normal|bold|italic> <size>" with the size
// multiplied by scale and rounded half-up.
func FontString(family, styleName string, size, scale float64) string {
	if strings.TrimSpace(family) == "" {
		family = DefaultFamily
	}
	switch strings.ToLower(strings.TrimSpace(styleName)) {
	case "bold", "1":
		styleName = "bold"
	case "italic", "2":
		styleName = "italic"
	default:
		styleName = "normal"
	}
	px := math.Floor(size*scale + 0.5)
	return fmt.Sprintf("%s %s %s", family, styleName, strconv.FormatFloat(px, 'f', -1, 64))
}
