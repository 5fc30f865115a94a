package layout

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// cluster 是排版的最小单位：一个字符及其字体、步进与颜色。
type cluster struct {
	text    string
	face    Face
	advance float64
	color   *color.NRGBA
	space   bool
	newline bool
}

type faceCache struct {
	fonts FontMap
	opts  FontOptions
	faces map[FontDescription]Face
}

func (c *faceCache) get(d FontDescription) (Face, error) {
	if f, ok := c.faces[d]; ok {
		return f, nil
	}
	if c.fonts == nil {
		return nil, fmt.Errorf("布局未绑定字体映射")
	}
	f, err := c.fonts.Face(d, c.opts)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", d, err)
	}
	c.faces[d] = f
	return f, nil
}

func (l *Layout) build() ([]Line, [2]float64, error) {
	cache := &faceCache{fonts: l.fonts, opts: l.options, faces: map[FontDescription]Face{}}
	base, err := cache.get(l.desc)
	if err != nil {
		return nil, [2]float64{}, err
	}
	clusters, err := l.clusters(cache)
	if err != nil {
		return nil, [2]float64{}, err
	}

	limit := l.width
	if limit < 0 {
		limit = math.Inf(1)
	}
	var rows []row
	for _, para := range splitParagraphs(clusters) {
		rows = append(rows, breakParagraph(para, limit, l.wrap)...)
	}

	layoutWidth := l.width
	if layoutWidth < 0 {
		layoutWidth = 0
		for _, r := range rows {
			layoutWidth = math.Max(layoutWidth, visibleWidth(r.items))
		}
	}

	lines := make([]Line, 0, len(rows))
	y, maxWidth := 0.0, 0.0
	for _, r := range rows {
		line := l.placeRow(r, base, layoutWidth, y)
		lines = append(lines, line)
		maxWidth = math.Max(maxWidth, line.Width)
		y += line.Height
	}
	if l.arc.Radius > 0 {
		for i := range lines {
			bendLine(&lines[i], l.arc)
		}
	}
	return lines, [2]float64{maxWidth, y}, nil
}

func (l *Layout) clusters(cache *faceCache) ([]cluster, error) {
	spans := l.spans
	if spans == nil {
		spans = []span{{text: l.text}}
	}
	var out []cluster
	for _, sp := range spans {
		face, err := cache.get(l.desc.Merge(sp.over))
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(sp.text); {
			r, size := utf8.DecodeRuneInString(sp.text[i:])
			offset := sp.start + i
			if r == '\r' {
				// \r\n 视为一个换行
				if strings.HasPrefix(sp.text[i+1:], "\n") {
					size++
				}
				r = '\n'
			}
			s := sp.text[i : i+size]
			i += size
			if r == '\n' {
				out = append(out, cluster{text: s, face: face, newline: true})
				continue
			}
			spacing := 0.0
			if sp.spacing != nil {
				spacing = PixelsFromUnits(*sp.spacing)
			} else if v, ok := l.attrs.value(AttrLetterSpacing, offset); ok {
				spacing = PixelsFromUnits(v)
			}
			out = append(out, cluster{
				text:    s,
				face:    face,
				advance: face.Advance(s) + spacing,
				color:   sp.color,
				space:   unicode.IsSpace(r),
			})
		}
	}
	return out, nil
}

// row 是断行后的一行；paraEnd 标记段落最后一行（两端对齐时不拉伸）。
type row struct {
	items   []cluster
	paraEnd bool
	face    Face // 空行使用的字体
}

// splitParagraphs 按显式换行切分，换行符所在字体用于空行高度。
func splitParagraphs(cs []cluster) [][]cluster {
	paras := [][]cluster{{}}
	for _, c := range cs {
		if c.newline {
			paras = append(paras, []cluster{c})
			continue
		}
		paras[len(paras)-1] = append(paras[len(paras)-1], c)
	}
	return paras
}

func breakParagraph(para []cluster, limit float64, wrap WrapMode) []row {
	var marker Face
	if len(para) > 0 && para[0].newline {
		marker = para[0].face
		para = para[1:]
	}
	var (
		rows    []row
		current []cluster
		width   float64
	)
	emit := func(force bool) {
		if len(current) == 0 && !force {
			return
		}
		rows = append(rows, row{items: current, face: marker})
		current, width = nil, 0
	}
	appendToken := func(tok []cluster) {
		current = append(current, tok...)
		width += tokenWidth(tok)
	}

	if math.IsInf(limit, 1) {
		appendToken(para)
		emit(true)
		rows[len(rows)-1].paraEnd = true
		return rows
	}

	if wrap == WrapChar {
		for _, c := range para {
			if !c.space && len(current) > 0 && width+c.advance > limit {
				emit(false)
			}
			appendToken([]cluster{c})
		}
		emit(true)
		rows[len(rows)-1].paraEnd = true
		return rows
	}

	// 词模式：空白永远不触发断行，挂在行尾且不计入可见宽度
	for _, tok := range tokenize(para) {
		tw := tokenWidth(tok)
		if tok[0].space {
			appendToken(tok)
			continue
		}
		if len(current) > 0 && width+tw > limit {
			emit(false)
		}
		if tw <= limit || wrap == WrapWord {
			appendToken(tok)
			continue
		}
		for _, chunk := range splitTokenByWidth(tok, limit) {
			if len(current) > 0 && width+tokenWidth(chunk) > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}
	emit(true)
	rows[len(rows)-1].paraEnd = true
	return rows
}

// tokenize 将段落拆成连续的空白/非空白片段。
func tokenize(cs []cluster) [][]cluster {
	var tokens [][]cluster
	start := 0
	for i := 1; i <= len(cs); i++ {
		if i == len(cs) || cs[i].space != cs[start].space {
			tokens = append(tokens, cs[start:i])
			start = i
		}
	}
	return tokens
}

func splitTokenByWidth(tok []cluster, limit float64) [][]cluster {
	var (
		parts [][]cluster
		start int
		w     float64
	)
	for i, c := range tok {
		if i > start && w+c.advance > limit {
			parts = append(parts, tok[start:i])
			start, w = i, 0
		}
		w += c.advance
	}
	return append(parts, tok[start:])
}

func tokenWidth(tok []cluster) float64 {
	w := 0.0
	for _, c := range tok {
		w += c.advance
	}
	return w
}

func trailingSpace(cs []cluster) float64 {
	w := 0.0
	for i := len(cs) - 1; i >= 0 && cs[i].space; i-- {
		w += cs[i].advance
	}
	return w
}

// visibleWidth 不计行尾空白。
func visibleWidth(cs []cluster) float64 { return tokenWidth(cs) - trailingSpace(cs) }

func (l *Layout) placeRow(r row, base Face, layoutWidth, top float64) Line {
	m := rowMetrics(r, base)
	visible := visibleWidth(r.items)

	// 两端对齐：把剩余宽度平均分给行内（非行尾）空白
	extra := 0.0
	if l.justify && l.width >= 0 && !r.paraEnd && visible < layoutWidth {
		n := 0
		for i := 0; i < len(r.items)-countTrailing(r.items); i++ {
			if r.items[i].space {
				n++
			}
		}
		if n > 0 {
			extra = (layoutWidth - visible) / float64(n)
			visible = layoutWidth
		}
	}

	x := 0.0
	switch l.align {
	case AlignCenter:
		x = (layoutWidth - visible) / 2
	case AlignRight:
		x = layoutWidth - visible
	}

	line := Line{X: x, Y: top, Width: visible, Height: m.Height(), Baseline: top + m.Ascent}
	var text strings.Builder
	cursor := x
	inner := len(r.items) - countTrailing(r.items)
	for i, c := range r.items {
		adv := c.advance
		if c.space && i < inner {
			adv += extra
		}
		line.Glyphs = append(line.Glyphs, Glyph{
			Text:    c.text,
			X:       cursor,
			Y:       line.Baseline,
			Advance: adv,
			Face:    c.face,
			Color:   c.color,
		})
		text.WriteString(c.text)
		cursor += adv
	}
	line.Text = text.String()
	return line
}

func countTrailing(cs []cluster) int {
	n := 0
	for i := len(cs) - 1; i >= 0 && cs[i].space; i-- {
		n++
	}
	return n
}

func rowMetrics(r row, base Face) Metrics {
	var m Metrics
	faces := make([]Face, 0, len(r.items)+1)
	for _, c := range r.items {
		faces = append(faces, c.face)
	}
	if len(faces) == 0 {
		if r.face != nil {
			faces = append(faces, r.face)
		} else {
			faces = append(faces, base)
		}
	}
	for _, f := range faces {
		fm := f.Metrics()
		m.Ascent = math.Max(m.Ascent, fm.Ascent)
		m.Descent = math.Max(m.Descent, fm.Descent)
		m.LineGap = math.Max(m.LineGap, fm.LineGap)
	}
	return m
}

// bendLine 将一行字形沿半径为 a.Radius 的圆弧排布，圆心位于行中点下方。
func bendLine(line *Line, a Arc) {
	if len(line.Glyphs) == 0 {
		return
	}
	cx := line.X + line.Width/2
	cy := line.Baseline + a.Radius
	for i := range line.Glyphs {
		g := &line.Glyphs[i]
		offset := g.X + g.Advance/2 - cx
		theta := offset / a.Radius
		if a.Angle != 0 && line.Width > 0 {
			theta = offset / line.Width * a.Angle * math.Pi / 180
		}
		px := cx + a.Radius*math.Sin(theta)
		py := cy - a.Radius*math.Cos(theta)
		g.X = px - g.Advance/2*math.Cos(theta)
		g.Y = py - g.Advance/2*math.Sin(theta)
		g.Angle = theta
	}
}
