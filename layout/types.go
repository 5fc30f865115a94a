package layout

import "image/color"

// 该文件定义排版引擎对外暴露的枚举与结果结构，供渲染管线、引擎后端与调试 JSON 共用。

// Weight 使用 OpenType 的数值字重。
type Weight int

const (
	WeightThin       Weight = 100
	WeightUltraLight Weight = 200
	WeightLight      Weight = 300
	WeightSemiLight  Weight = 350
	WeightBook       Weight = 380
	WeightNormal     Weight = 400
	WeightMedium     Weight = 500
	WeightSemiBold   Weight = 600
	WeightBold       Weight = 700
	WeightUltraBold  Weight = 800
	WeightHeavy      Weight = 900
	WeightUltraHeavy Weight = 1000
)

// Stretch 字宽，从最窄到最宽。
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

// Slant 字形倾斜方式。
type Slant int

const (
	SlantNormal Slant = iota
	SlantOblique
	SlantItalic
)

// Alignment 水平对齐。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// WrapMode 在设置了宽度时决定断行位置。
type WrapMode int

const (
	WrapWord     WrapMode = iota // 仅在词边界断行，超长单词溢出
	WrapChar                     // 任意字符处断行
	WrapWordChar                 // 优先词边界，放不下时退回字符
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

type SubpixelOrder int

const (
	SubpixelDefault SubpixelOrder = iota
	SubpixelRGB
	SubpixelBGR
	SubpixelVRGB
	SubpixelVBGR
)

// FontOptions 是光栅化阶段的字体选项，由引擎决定如何使用。
type FontOptions struct {
	HintStyle     HintStyle     `json:"hintStyle"`
	HintMetrics   HintMetrics   `json:"hintMetrics"`
	Antialias     Antialias     `json:"antialias"`
	SubpixelOrder SubpixelOrder `json:"subpixelOrder"`
}

// Metrics 以像素为单位，Descent 为正值。
type Metrics struct {
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
	LineGap float64 `json:"lineGap"`
}

// Height 返回一行的高度。
func (m Metrics) Height() float64 { return m.Ascent + m.Descent + m.LineGap }

// Glyph 是一个已定位的字符簇。X/Y 为基线原点，相对布局左上角。
type Glyph struct {
	Text    string       `json:"text"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Advance float64      `json:"advance"`
	Angle   float64      `json:"angle,omitempty"` // 弧形排版时的旋转角（弧度，顺时针）
	Face    Face         `json:"-"`
	Color   *color.NRGBA `json:"color,omitempty"` // nil 表示使用绘制上下文的当前颜色
}

// Line 记录一行的位置与度量，Y 为行顶部。
type Line struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Baseline float64 `json:"baseline"`
	Glyphs   []Glyph `json:"glyphs"`
}
