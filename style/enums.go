// Package style holds the style descriptor and render request exchanged with
// the host. Enum values are stored by the host as plain integers, so their
// order is part of the contract.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
	VAlignBottom
)

type Wrap int

const (
	WrapNone Wrap = iota
	WrapWord
	WrapChar
	WrapWordChar
)

type HintStyle int

const (
	HintStyleDefault HintStyle = iota
	HintStyleNone
	HintStyleSlight
	HintStyleMedium
	HintStyleFull
)

type HintMetrics int

const (
	HintMetricsDefault HintMetrics = iota
	HintMetricsOn
	HintMetricsOff
)

type Antialias int

const (
	AntialiasDefault Antialias = iota
	AntialiasNone
	AntialiasGray
	AntialiasSubpixel
)

type Subpixel int

const (
	SubpixelDefault Subpixel = iota
	SubpixelRGB
	SubpixelBGR
	SubpixelVRGB
	SubpixelVBGR
)

type Stretch int

const (
	StretchUltraCondensed Stretch = iota
	StretchExtraCondensed
	StretchCondensed
	StretchSemiCondensed
	StretchNormal
	StretchSemiExpanded
	StretchExpanded
	StretchExtraExpanded
	StretchUltraExpanded
)

type Weight int

const (
	WeightThin Weight = iota
	WeightUltraLight
	WeightLight
	WeightSemiLight
	WeightBook
	WeightNormal
	WeightMedium
	WeightSemiBold
	WeightBold
	WeightUltraBold
	WeightHeavy
	WeightUltraHeavy
)

var (
	alignNames       = []string{"left", "right", "center"}
	valignNames      = []string{"top", "middle", "bottom"}
	wrapNames        = []string{"none", "word", "char", "word-char"}
	hintStyleNames   = []string{"default", "none", "slight", "medium", "full"}
	hintMetricsNames = []string{"default", "on", "off"}
	antialiasNames   = []string{"default", "none", "gray", "subpixel"}
	subpixelNames    = []string{"default", "rgb", "bgr", "vrgb", "vbgr"}
	stretchNames     = []string{
		"ultra-condensed", "extra-condensed", "condensed", "semi-condensed", "normal",
		"semi-expanded", "expanded", "extra-expanded", "ultra-expanded",
	}
	weightNames = []string{
		"thin", "ultra-light", "light", "semi-light", "book", "normal",
		"medium", "semi-bold", "bold", "ultra-bold", "heavy", "ultra-heavy",
	}
)

func (v Align) String() string       { return enumName(alignNames, int(v)) }
func (v VAlign) String() string      { return enumName(valignNames, int(v)) }
func (v Wrap) String() string        { return enumName(wrapNames, int(v)) }
func (v HintStyle) String() string   { return enumName(hintStyleNames, int(v)) }
func (v HintMetrics) String() string { return enumName(hintMetricsNames, int(v)) }
func (v Antialias) String() string   { return enumName(antialiasNames, int(v)) }
func (v Subpixel) String() string    { return enumName(subpixelNames, int(v)) }
func (v Stretch) String() string     { return enumName(stretchNames, int(v)) }
func (v Weight) String() string      { return enumName(weightNames, int(v)) }

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return strconv.Itoa(v)
	}
	return names[v]
}

// parseEnum accepts a name (case, '_' and ' ' insensitive) or an ordinal.
func parseEnum(kind string, names []string, s string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	for i, n := range names {
		if n == key || strings.ReplaceAll(n, "-", "") == key {
			return i, nil
		}
	}
	if ord, err := strconv.Atoi(key); err == nil && ord >= 0 && ord < len(names) {
		return ord, nil
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func ParseAlign(s string) (Align, error) {
	v, err := parseEnum("align", alignNames, s)
	return Align(v), err
}

func ParseVAlign(s string) (VAlign, error) {
	v, err := parseEnum("vertical align", valignNames, s)
	return VAlign(v), err
}

func ParseWrap(s string) (Wrap, error) {
	v, err := parseEnum("wrap", wrapNames, s)
	return Wrap(v), err
}

func ParseHintStyle(s string) (HintStyle, error) {
	v, err := parseEnum("hint style", hintStyleNames, s)
	return HintStyle(v), err
}

func ParseHintMetrics(s string) (HintMetrics, error) {
	v, err := parseEnum("hint metrics", hintMetricsNames, s)
	return HintMetrics(v), err
}

func ParseAntialias(s string) (Antialias, error) {
	v, err := parseEnum("antialias", antialiasNames, s)
	return Antialias(v), err
}

func ParseSubpixel(s string) (Subpixel, error) {
	v, err := parseEnum("subpixel order", subpixelNames, s)
	return Subpixel(v), err
}

func ParseStretch(s string) (Stretch, error) {
	v, err := parseEnum("stretch", stretchNames, s)
	return Stretch(v), err
}

func ParseWeight(s string) (Weight, error) {
	v, err := parseEnum("weight", weightNames, s)
	return Weight(v), err
}
