package layout

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/textfx/markup"
	"github.com/ByLCY/textfx/style"
)

// Arc 描述弧形排版：Radius > 0 时启用，Angle 为整行跨越的角度（度），0 表示按弧长自然排布。
type Arc struct {
	Radius float64 `json:"radius"`
	Angle  float64 `json:"angle"`
}

// span 是带样式覆盖的一段文本，来自 span 标记；纯文本只有一个 span。
type span struct {
	text    string
	start   int
	over    FontDescription
	color   *color.NRGBA
	spacing *int
}

// Layout 保存一段文本的排版参数，并在需要时计算行与字形位置。
type Layout struct {
	fonts   FontMap
	options FontOptions
	desc    FontDescription
	text    string
	spans   []span
	width   float64
	wrap    WrapMode
	align   Alignment
	justify bool
	attrs   *AttrList
	arc     Arc

	lines []Line
	size  [2]float64
	valid bool
	err   error
}

// New 创建绑定到 fonts 的空布局，默认不限宽度、按词断行、左对齐。
func New(fonts FontMap) *Layout {
	return &Layout{fonts: fonts, desc: NewFontDescription(), width: -1}
}

func (l *Layout) invalidate() { l.valid = false }

// SetText 设置纯文本，清除之前的标记样式。
func (l *Layout) SetText(s string) {
	l.text = s
	l.spans = nil
	l.invalidate()
}

// Text 返回去除标记后的文本。
func (l *Layout) Text() string { return l.text }

// SetMarkup 解析 span 标记；出错时布局保持不变。
func (l *Layout) SetMarkup(s string) error {
	doc, err := markup.ParseString(s)
	if err != nil {
		return err
	}
	var (
		spans []span
		text  strings.Builder
	)
	for _, run := range doc.Runs() {
		sp := span{text: run.Text, start: text.Len()}
		for _, a := range run.Attrs {
			if err := sp.apply(a); err != nil {
				return err
			}
		}
		spans = append(spans, sp)
		text.WriteString(run.Text)
	}
	l.text = text.String()
	l.spans = spans
	l.invalidate()
	return nil
}

func (sp *span) apply(a markup.Attribute) error {
	switch a.Key {
	case "font_desc", "font":
		sp.over = sp.over.Merge(ParseFontDescription(a.Value))
	case "font_family", "face":
		sp.over.SetFamily(a.Value)
	case "size", "font_size":
		px, err := parseSpanSize(a.Value)
		if err != nil {
			return err
		}
		sp.over.SetSize(px)
	case "weight", "font_weight":
		w, err := ParseWeight(a.Value)
		if err != nil {
			return err
		}
		sp.over.SetWeight(w)
	case "style", "font_style":
		s, err := ParseSlant(a.Value)
		if err != nil {
			return err
		}
		sp.over.SetSlant(s)
	case "stretch", "font_stretch":
		s, err := ParseStretch(a.Value)
		if err != nil {
			return err
		}
		sp.over.SetStretch(s)
	case "color", "foreground", "fgcolor":
		c, err := style.ParseColor(a.Value)
		if err != nil {
			return err
		}
		nrgba := c.RGBA8()
		sp.color = &nrgba
	case "letter_spacing":
		v, err := strconv.Atoi(strings.TrimSpace(a.Value))
		if err != nil {
			return fmt.Errorf("无效的 letter_spacing: %q", a.Value)
		}
		sp.spacing = &v
	default:
		return fmt.Errorf("不支持的属性 %q", a.Key)
	}
	return nil
}

// parseSpanSize：带 pt/px 后缀时为像素，纯整数按排版单位（1/1024）解释。
func parseSpanSize(v string) (float64, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, unit := range []string{"pt", "px"} {
		if strings.HasSuffix(v, unit) {
			f, err := strconv.ParseFloat(strings.TrimSuffix(v, unit), 64)
			if err != nil || f < 0 {
				return 0, fmt.Errorf("无效的字号: %q", v)
			}
			return f, nil
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("无效的字号: %q", v)
	}
	return PixelsFromUnits(n), nil
}

func (l *Layout) SetFontDescription(d FontDescription) {
	l.desc = d
	l.invalidate()
}

func (l *Layout) FontDescription() FontDescription { return l.desc }

func (l *Layout) SetFontOptions(o FontOptions) {
	l.options = o
	l.invalidate()
}

func (l *Layout) FontOptions() FontOptions { return l.options }

// SetWidth 设置断行宽度（像素），负值表示不限宽度。
func (l *Layout) SetWidth(px float64) {
	l.width = px
	l.invalidate()
}

func (l *Layout) Width() float64 { return l.width }

func (l *Layout) SetWrap(w WrapMode) {
	l.wrap = w
	l.invalidate()
}

func (l *Layout) Wrap() WrapMode { return l.wrap }

func (l *Layout) SetAlignment(a Alignment) {
	l.align = a
	l.invalidate()
}

func (l *Layout) Alignment() Alignment { return l.align }

func (l *Layout) SetJustify(j bool) {
	l.justify = j
	l.invalidate()
}

func (l *Layout) Justify() bool { return l.justify }

// SetAttributes 设置全局属性列表（例如字距）。
func (l *Layout) SetAttributes(attrs *AttrList) {
	l.attrs = attrs
	l.invalidate()
}

func (l *Layout) SetArc(a Arc) {
	l.arc = a
	l.invalidate()
}

// Lines 返回排版后的行。
func (l *Layout) Lines() ([]Line, error) {
	if err := l.update(); err != nil {
		return nil, err
	}
	return l.lines, nil
}

// Size 返回逻辑尺寸（像素，未取整）。
func (l *Layout) Size() (float64, float64, error) {
	if err := l.update(); err != nil {
		return 0, 0, err
	}
	return l.size[0], l.size[1], nil
}

// PixelSize 返回向上取整后的像素尺寸。
func (l *Layout) PixelSize() (int, int, error) {
	w, h, err := l.Size()
	if err != nil {
		return 0, 0, err
	}
	return int(math.Ceil(w)), int(math.Ceil(h)), nil
}

func (l *Layout) update() error {
	if l.valid {
		return l.err
	}
	l.lines, l.size, l.err = l.build()
	l.valid = true
	return l.err
}
