package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// descMask 标记 FontDescription 中被显式设置的字段。
type descMask uint8

const (
	maskFamily descMask = 1 << iota
	maskSize
	maskWeight
	maskSlant
	maskStretch
)

// FontDescription 对应 "Family [style words] [size]" 形式的字体描述。
type FontDescription struct {
	Family  string
	Size    float64 // 像素，0 表示未设置
	Weight  Weight
	Slant   Slant
	Stretch Stretch
	mask    descMask
}

// NewFontDescription 返回默认描述：字重 normal、字宽 normal。
func NewFontDescription() FontDescription {
	return FontDescription{Weight: WeightNormal, Stretch: StretchNormal}
}

func (d *FontDescription) SetFamily(f string) { d.Family, d.mask = f, d.mask|maskFamily }
func (d *FontDescription) SetSize(px float64) { d.Size, d.mask = px, d.mask|maskSize }
func (d *FontDescription) SetWeight(w Weight) { d.Weight, d.mask = w, d.mask|maskWeight }
func (d *FontDescription) SetSlant(s Slant) { d.Slant, d.mask = s, d.mask|maskSlant }
func (d *FontDescription) SetStretch(s Stretch) { d.Stretch, d.mask = s, d.mask|maskStretch }

// Merge 用 over 中显式设置的字段覆盖 d。
func (d FontDescription) Merge(over FontDescription) FontDescription {
	if over.mask&maskFamily != 0 {
		d.SetFamily(over.Family)
	}
	if over.mask&maskSize != 0 {
		d.SetSize(over.Size)
	}
	if over.mask&maskWeight != 0 {
		d.SetWeight(over.Weight)
	}
	if over.mask&maskSlant != 0 {
		d.SetSlant(over.Slant)
	}
	if over.mask&maskStretch != 0 {
		d.SetStretch(over.Stretch)
	}
	return d
}

// Families 拆分逗号分隔的字体族列表。
func (d FontDescription) Families() []string {
	var out []string
	for _, f := range strings.Split(d.Family, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

type styleWord struct {
	apply func(*FontDescription)
}

var styleWords = map[string]styleWord{}

func init() {
	noop := styleWord{apply: func(*FontDescription) {}}
	for _, w := range []string{"normal", "regular", "roman"} {
		styleWords[w] = noop
	}
	weights := map[Weight][]string{
		WeightThin:       {"thin", "hairline"},
		WeightUltraLight: {"ultra-light", "ultralight", "extra-light", "extralight"},
		WeightLight:      {"light"},
		WeightSemiLight:  {"semi-light", "semilight", "demi-light", "demilight"},
		WeightBook:       {"book"},
		WeightMedium:     {"medium"},
		WeightSemiBold:   {"semi-bold", "semibold", "demi-bold", "demibold"},
		WeightBold:       {"bold"},
		WeightUltraBold:  {"ultra-bold", "ultrabold", "extra-bold", "extrabold"},
		WeightHeavy:      {"heavy", "black"},
		WeightUltraHeavy: {"ultra-heavy", "ultraheavy", "ultra-black", "extra-black"},
	}
	for w, names := range weights {
		for _, n := range names {
			styleWords[n] = styleWord{apply: func(d *FontDescription) { d.SetWeight(w) }}
		}
	}
	styleWords["italic"] = styleWord{apply: func(d *FontDescription) { d.SetSlant(SlantItalic) }}
	styleWords["oblique"] = styleWord{apply: func(d *FontDescription) { d.SetSlant(SlantOblique) }}
	for s, n := range stretchNames {
		if s == int(StretchNormal) {
			continue
		}
		st := Stretch(s)
		styleWords[n] = styleWord{apply: func(d *FontDescription) { d.SetStretch(st) }}
		styleWords[strings.ReplaceAll(n, "-", "")] = styleWords[n]
	}
}

var stretchNames = []string{
	"ultra-condensed", "extra-condensed", "condensed", "semi-condensed", "normal",
	"semi-expanded", "expanded", "extra-expanded", "ultra-expanded",
}

// ParseFontDescription 从末尾依次识别字号与样式词，剩余部分为字体族。
func ParseFontDescription(s string) FontDescription {
	d := NewFontDescription()
	words := strings.Fields(strings.TrimSpace(s))
	if n := len(words); n > 0 {
		if size, ok := parseSize(words[n-1]); ok {
			d.SetSize(size)
			words = words[:n-1]
		}
	}
	for len(words) > 0 {
		w, ok := styleWords[strings.ToLower(words[len(words)-1])]
		if !ok {
			break
		}
		w.apply(&d)
		words = words[:len(words)-1]
	}
	if family := strings.TrimSuffix(strings.Join(words, " "), ","); family != "" {
		d.SetFamily(family)
	}
	return d
}

func parseSize(w string) (float64, bool) {
	w = strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(w), "px"), "pt")
	v, err := strconv.ParseFloat(w, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// String 生成可被 ParseFontDescription 读回的描述。
func (d FontDescription) String() string {
	var parts []string
	if d.Family != "" {
		parts = append(parts, d.Family)
	}
	if d.Weight != WeightNormal {
		parts = append(parts, weightName(d.Weight))
	}
	switch d.Slant {
	case SlantItalic:
		parts = append(parts, "italic")
	case SlantOblique:
		parts = append(parts, "oblique")
	}
	if d.Stretch != StretchNormal && int(d.Stretch) >= 0 && int(d.Stretch) < len(stretchNames) {
		parts = append(parts, stretchNames[d.Stretch])
	}
	if d.Size > 0 {
		parts = append(parts, strconv.FormatFloat(d.Size, 'f', -1, 64))
	}
	if len(parts) == 0 {
		return "normal"
	}
	return strings.Join(parts, " ")
}

func weightName(w Weight) string {
	switch w {
	case WeightThin:
		return "thin"
	case WeightUltraLight:
		return "ultra-light"
	case WeightLight:
		return "light"
	case WeightSemiLight:
		return "semi-light"
	case WeightBook:
		return "book"
	case WeightMedium:
		return "medium"
	case WeightSemiBold:
		return "semi-bold"
	case WeightBold:
		return "bold"
	case WeightUltraBold:
		return "ultra-bold"
	case WeightHeavy:
		return "heavy"
	case WeightUltraHeavy:
		return "ultra-heavy"
	default:
		return fmt.Sprintf("%d", int(w))
	}
}

// ParseWeight 接受字重名称或 100-1000 的数值。
func ParseWeight(s string) (Weight, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, err := strconv.Atoi(key); err == nil {
		if v < 100 || v > 1000 {
			return 0, fmt.Errorf("字重超出范围: %d", v)
		}
		return Weight(v), nil
	}
	if key == "normal" {
		return WeightNormal, nil
	}
	var d FontDescription
	if w, ok := styleWords[key]; ok {
		w.apply(&d)
		if d.mask&maskWeight != 0 {
			return d.Weight, nil
		}
	}
	return 0, fmt.Errorf("未知字重: %q", s)
}

// ParseSlant 接受 normal / italic / oblique。
func ParseSlant(s string) (Slant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return SlantNormal, nil
	case "italic":
		return SlantItalic, nil
	case "oblique":
		return SlantOblique, nil
	}
	return 0, fmt.Errorf("未知字形样式: %q", s)
}

// ParseStretch 接受字宽名称。
func ParseStretch(s string) (Stretch, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range stretchNames {
		if key == n || key == strings.ReplaceAll(n, "-", "") {
			return Stretch(i), nil
		}
	}
	return 0, fmt.Errorf("未知字宽: %q", s)
}
