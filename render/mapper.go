package render

import (
	"github.com/ByLCY/textfx/layout"
	"github.com/ByLCY/textfx/style"
)

// 每个维度一张查找表，未列出的取值使用表的默认项。

var wrapTable = map[style.Wrap]layout.WrapMode{
	style.WrapChar:     layout.WrapChar,
	style.WrapWordChar: layout.WrapWordChar,
}

var alignTable = map[style.Align]layout.Alignment{
	style.AlignRight:  layout.AlignRight,
	style.AlignCenter: layout.AlignCenter,
}

var hintStyleTable = map[style.HintStyle]layout.HintStyle{
	style.HintStyleNone:   layout.HintStyleNone,
	style.HintStyleSlight: layout.HintStyleSlight,
	style.HintStyleMedium: layout.HintStyleMedium,
	style.HintStyleFull:   layout.HintStyleFull,
}

var hintMetricsTable = map[style.HintMetrics]layout.HintMetrics{
	style.HintMetricsOn:  layout.HintMetricsOn,
	style.HintMetricsOff: layout.HintMetricsOff,
}

var antialiasTable = map[style.Antialias]layout.Antialias{
	style.AntialiasNone:     layout.AntialiasNone,
	style.AntialiasGray:     layout.AntialiasGray,
	style.AntialiasSubpixel: layout.AntialiasSubpixel,
}

var subpixelTable = map[style.Subpixel]layout.SubpixelOrder{
	style.SubpixelRGB:  layout.SubpixelRGB,
	style.SubpixelBGR:  layout.SubpixelBGR,
	style.SubpixelVRGB: layout.SubpixelVRGB,
	style.SubpixelVBGR: layout.SubpixelVBGR,
}

var stretchTable = map[style.Stretch]layout.Stretch{
	style.StretchUltraCondensed: layout.StretchUltraCondensed,
	style.StretchExtraCondensed: layout.StretchExtraCondensed,
	style.StretchCondensed:      layout.StretchCondensed,
	style.StretchSemiCondensed:  layout.StretchSemiCondensed,
	style.StretchSemiExpanded:   layout.StretchSemiExpanded,
	style.StretchExpanded:       layout.StretchExpanded,
	style.StretchExtraExpanded:  layout.StretchExtraExpanded,
	style.StretchUltraExpanded:  layout.StretchUltraExpanded,
}

var weightTable = map[style.Weight]layout.Weight{
	style.WeightThin:       layout.WeightThin,
	style.WeightUltraLight: layout.WeightUltraLight,
	style.WeightLight:      layout.WeightLight,
	style.WeightSemiLight:  layout.WeightSemiLight,
	style.WeightBook:       layout.WeightBook,
	style.WeightMedium:     layout.WeightMedium,
	style.WeightSemiBold:   layout.WeightSemiBold,
	style.WeightBold:       layout.WeightBold,
	style.WeightUltraBold:  layout.WeightUltraBold,
	style.WeightHeavy:      layout.WeightHeavy,
	style.WeightUltraHeavy: layout.WeightUltraHeavy,
}

// lookup 返回表中的值，缺失时返回 def。
func lookup[K comparable, V any](table map[K]V, k K, def V) V {
	if v, ok := table[k]; ok {
		return v
	}
	return def
}

// Wrap None 与 Word 都映射为按词断行；None 的“不断行”由不设置宽度实现。
func applyWrap(l *layout.Layout, w style.Wrap) {
	l.SetWrap(lookup(wrapTable, w, layout.WrapWord))
}

func applyAlign(l *layout.Layout, a style.Align) {
	l.SetAlignment(lookup(alignTable, a, layout.AlignLeft))
}

func applyJustify(l *layout.Layout, justify bool) { l.SetJustify(justify) }

func fontOptions(d style.Descriptor) layout.FontOptions {
	return layout.FontOptions{
		HintStyle:     lookup(hintStyleTable, d.HintStyle, layout.HintStyleDefault),
		HintMetrics:   lookup(hintMetricsTable, d.HintMetrics, layout.HintMetricsDefault),
		Antialias:     lookup(antialiasTable, d.Antialias, layout.AntialiasDefault),
		SubpixelOrder: lookup(subpixelTable, d.Subpixel, layout.SubpixelDefault),
	}
}

func applyWeight(desc *layout.FontDescription, w style.Weight) {
	desc.SetWeight(lookup(weightTable, w, layout.WeightNormal))
}

func applyStretch(desc *layout.FontDescription, s style.Stretch) {
	desc.SetStretch(lookup(stretchTable, s, layout.StretchNormal))
}
